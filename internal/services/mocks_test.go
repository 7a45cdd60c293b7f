package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/storefront/catalog/internal/models"
	"github.com/storefront/catalog/internal/repositories"
)

// fakeUserRepo keeps users in memory and mimics the repository sentinels.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrEmailExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByRefreshToken(token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) SaveRefreshToken(userID uint, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshToken = &token
	}
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.RefreshToken = nil
	}
	return nil
}

// fakeCategoryRepo records mutating calls so tests can assert the delete
// guard short-circuits before the delete statement.
type fakeCategoryRepo struct {
	nextID       uint
	categories   map[uint]*models.Category
	productCount map[uint]int64
	deleteCalls  int
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		nextID:       1,
		categories:   map[uint]*models.Category{},
		productCount: map[uint]int64{},
	}
}

func (r *fakeCategoryRepo) Create(category *models.Category) error {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return repositories.ErrCategoryNameExists
		}
	}
	category.ID = r.nextID
	r.nextID++
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) ListWithCounts() ([]repositories.CategoryWithCount, error) {
	rows := make([]repositories.CategoryWithCount, 0, len(r.categories))
	for id, c := range r.categories {
		rows = append(rows, repositories.CategoryWithCount{
			Category:     *c,
			ProductCount: r.productCount[id],
		})
	}
	return rows, nil
}

func (r *fakeCategoryRepo) FindByID(id uint) (*models.Category, error) {
	if c, ok := r.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repositories.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) Update(id uint, assignments map[string]interface{}) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	if name, ok := assignments["name"].(string); ok {
		for otherID, other := range r.categories {
			if otherID != id && other.Name == name {
				return nil, repositories.ErrCategoryNameExists
			}
		}
		c.Name = name
	}
	if description, ok := assignments["description"].(string); ok {
		c.Description = description
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) CountProducts(id uint) (int64, error) {
	return r.productCount[id], nil
}

func (r *fakeCategoryRepo) Delete(id uint) (*models.Category, error) {
	r.deleteCalls++
	c, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return c, nil
}

// fakeProductRepo captures the arguments of the transactional writes so
// tests can inspect what would reach the database.
type fakeProductRepo struct {
	slugs    map[string]uint
	products map[uint]*models.Product
	colors   map[uint][]models.ProductColor
	images   map[uint][]string
	nextID   uint

	lastAssignments map[string]interface{}
	lastColors      *[]models.ProductColor
	lastImages      *[]string

	failCreate error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		slugs:    map[string]uint{},
		products: map[uint]*models.Product{},
		colors:   map[uint][]models.ProductColor{},
		images:   map[uint][]string{},
		nextID:   1,
	}
}

func (r *fakeProductRepo) SlugExists(slug string, excludeID uint) (bool, error) {
	id, ok := r.slugs[slug]
	return ok && id != excludeID, nil
}

func (r *fakeProductRepo) CreateFull(product *models.Product, colors []models.ProductColor, imageURLs []string) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, ok := r.slugs[product.Slug]; ok {
		return repositories.ErrDuplicateSlug
	}
	product.ID = r.nextID
	r.nextID++
	r.slugs[product.Slug] = product.ID
	copied := *product
	r.products[product.ID] = &copied
	r.colors[product.ID] = colors
	r.images[product.ID] = imageURLs
	return nil
}

func (r *fakeProductRepo) UpdateFull(id uint, assignments map[string]interface{}, colors *[]models.ProductColor, imageURLs *[]string) error {
	if _, ok := r.products[id]; !ok {
		return repositories.ErrProductNotFound
	}
	r.lastAssignments = assignments
	r.lastColors = colors
	r.lastImages = imageURLs
	if colors != nil {
		r.colors[id] = *colors
	}
	if imageURLs != nil {
		r.images[id] = *imageURLs
	}
	return nil
}

func (r *fakeProductRepo) DeleteFull(id uint) (*string, []string, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil, repositories.ErrProductNotFound
	}
	gallery := r.images[id]
	delete(r.products, id)
	delete(r.slugs, p.Slug)
	delete(r.colors, id)
	delete(r.images, id)
	return p.PreviewImage, gallery, nil
}

func (r *fakeProductRepo) FindByID(id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	copied := *p
	copied.Colors = r.colors[id]
	for _, url := range r.images[id] {
		copied.Images = append(copied.Images, models.ProductImage{ProductID: id, ImagePath: url})
	}
	return &copied, nil
}

func (r *fakeProductRepo) PreviewURL(id uint) (*string, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrProductNotFound
	}
	return p.PreviewImage, nil
}

func (r *fakeProductRepo) GalleryURLs(id uint) ([]string, error) {
	return r.images[id], nil
}

func (r *fakeProductRepo) List(filter repositories.ProductFilter) ([]repositories.ProductSummary, error) {
	rows := make([]repositories.ProductSummary, 0, len(r.products))
	for _, p := range r.products {
		rows = append(rows, repositories.ProductSummary{Product: *p})
	}
	return rows, nil
}

func (r *fakeProductRepo) Search(query string) ([]repositories.ProductSummary, error) {
	return nil, nil
}

// fakeMediaStore hands out predictable URLs and records every delete.
type fakeMediaStore struct {
	mu      sync.Mutex
	nextN   int
	uploads []string
	deletes []string

	failUpload error
	failDelete error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{}
}

func (s *fakeMediaStore) Upload(ctx context.Context, namespace string, reader io.Reader, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload != nil {
		return "", s.failUpload
	}
	s.nextN++
	url := fmt.Sprintf("https://media.test/%s/object-%d", namespace, s.nextN)
	s.uploads = append(s.uploads, url)
	return url, nil
}

func (s *fakeMediaStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, url)
	return s.failDelete
}
