package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/storefront/catalog/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSlug   = errors.New("product slug already exists")
)

// ProductSummary is a product row joined with its category name, used by
// the list and search endpoints.
type ProductSummary struct {
	models.Product
	CategoryName string `json:"category_name"`
}

// ProductFilter narrows the listing. Every filter is optional and they
// combine with AND; pagination applies only when both page and limit are
// set.
type ProductFilter struct {
	CategoryID *uint
	MinPrice   *float64
	MaxPrice   *float64
	Page       int
	Limit      int
}

type ProductRepository interface {
	SlugExists(slug string, excludeID uint) (bool, error)
	CreateFull(product *models.Product, colors []models.ProductColor, imageURLs []string) error
	UpdateFull(id uint, assignments map[string]interface{}, colors *[]models.ProductColor, imageURLs *[]string) error
	DeleteFull(id uint) (previewURL *string, galleryURLs []string, err error)
	FindByID(id uint) (*models.Product, error)
	PreviewURL(id uint) (*string, error)
	GalleryURLs(id uint) ([]string, error)
	List(filter ProductFilter) ([]ProductSummary, error)
	Search(query string) ([]ProductSummary, error)
}

type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func (r *ProductRepositoryImpl) SlugExists(slug string, excludeID uint) (bool, error) {
	q := r.db.Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateFull inserts the product row with its color and image child rows in
// one transaction. Any relational failure rolls the whole insert back; the
// slug uniqueness check is repeated here because the service-level pre-check
// is an advisory race.
func (r *ProductRepositoryImpl) CreateFull(product *models.Product, colors []models.ProductColor, imageURLs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Where("slug = ?", product.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSlug
		}

		if err := tx.Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSlug
			}
			return err
		}

		if len(colors) > 0 {
			for i := range colors {
				colors[i].ProductID = product.ID
			}
			if err := tx.Create(&colors).Error; err != nil {
				return err
			}
		}

		if len(imageURLs) > 0 {
			images := make([]models.ProductImage, 0, len(imageURLs))
			for _, url := range imageURLs {
				images = append(images, models.ProductImage{ProductID: product.ID, ImagePath: url})
			}
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// UpdateFull applies a sparse column update and, when a colors or image
// list is supplied, replaces the corresponding child rows wholesale:
// delete-all then re-insert, never a diff. All of it runs in one
// transaction.
func (r *ProductRepositoryImpl) UpdateFull(id uint, assignments map[string]interface{}, colors *[]models.ProductColor, imageURLs *[]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if len(assignments) > 0 {
			err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(assignments).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSlug
			}
			if err != nil {
				return err
			}
		}

		if colors != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductColor{}).Error; err != nil {
				return err
			}
			if len(*colors) > 0 {
				replacement := make([]models.ProductColor, len(*colors))
				copy(replacement, *colors)
				for i := range replacement {
					replacement[i].ProductID = id
				}
				if err := tx.Create(&replacement).Error; err != nil {
					return err
				}
			}
		}

		if imageURLs != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			if len(*imageURLs) > 0 {
				images := make([]models.ProductImage, 0, len(*imageURLs))
				for _, url := range *imageURLs {
					images = append(images, models.ProductImage{ProductID: id, ImagePath: url})
				}
				if err := tx.Create(&images).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// DeleteFull removes the product with its child rows in one transaction and
// hands back the media URLs that were attached, so the caller can run
// best-effort object deletion after commit.
func (r *ProductRepositoryImpl) DeleteFull(id uint) (*string, []string, error) {
	var previewURL *string
	var galleryURLs []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		previewURL = product.PreviewImage

		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", id).
			Pluck("image_path", &galleryURLs).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.ProductColor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return previewURL, galleryURLs, nil
}

func (r *ProductRepositoryImpl) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Colors").Preload("Images").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) PreviewURL(id uint) (*string, error) {
	var product models.Product
	err := r.db.Select("id", "preview_image").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product.PreviewImage, nil
}

func (r *ProductRepositoryImpl) GalleryURLs(id uint) ([]string, error) {
	var urls []string
	err := r.db.Model(&models.ProductImage{}).Where("product_id = ?", id).
		Pluck("image_path", &urls).Error
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *ProductRepositoryImpl) List(filter ProductFilter) ([]ProductSummary, error) {
	q := r.db.Model(&models.Product{}).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")

	if filter.CategoryID != nil {
		q = q.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		q = q.Where("products.sell_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.sell_price <= ?", *filter.MaxPrice)
	}
	if filter.Page > 0 && filter.Limit > 0 {
		q = q.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var rows []ProductSummary
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Search does a case-insensitive substring match against title or
// description, newest id first. No relevance ranking.
func (r *ProductRepositoryImpl) Search(query string) ([]ProductSummary, error) {
	pattern := "%" + query + "%"

	var rows []ProductSummary
	err := r.db.Model(&models.Product{}).
		Select("products.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.title ILIKE ? OR products.description ILIKE ?", pattern, pattern).
		Order("products.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
