package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/storefront/catalog/internal/models"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category name already exists")
)

// CategoryWithCount is a category row joined with the live number of
// products referencing it.
type CategoryWithCount struct {
	models.Category
	ProductCount int64 `json:"product_count"`
}

type CategoryRepository interface {
	Create(category *models.Category) error
	ListWithCounts() ([]CategoryWithCount, error)
	FindByID(id uint) (*models.Category, error)
	Update(id uint, assignments map[string]interface{}) (*models.Category, error)
	CountProducts(id uint) (int64, error)
	Delete(id uint) (*models.Category, error)
}

type CategoryRepositoryImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(category *models.Category) error {
	err := r.db.Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCategoryNameExists
	}
	return err
}

func (r *CategoryRepositoryImpl) ListWithCounts() ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := r.db.Model(&models.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CategoryRepositoryImpl) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Update applies a sparse set of column assignments and returns the
// refreshed row.
func (r *CategoryRepositoryImpl) Update(id uint, assignments map[string]interface{}) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if len(assignments) > 0 {
		err := r.db.Model(&models.Category{}).Where("id = ?", id).Updates(assignments).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryNameExists
		}
		if err != nil {
			return nil, err
		}
		if err := r.db.First(&category, id).Error; err != nil {
			return nil, err
		}
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) CountProducts(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// Delete removes the category and returns the deleted row. The referential
// guard lives in the service; this only reports ErrCategoryNotFound when
// nothing matched.
func (r *CategoryRepositoryImpl) Delete(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if err := r.db.Delete(&models.Category{}, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
