package services

import (
	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/models"
	"github.com/storefront/catalog/internal/repositories"
	"github.com/storefront/catalog/internal/services/dto"
)

type CategoryService interface {
	Create(req *dto.CreateCategoryRequest) (*models.Category, error)
	List() ([]repositories.CategoryWithCount, error)
	Get(id uint) (*models.Category, error)
	Update(id uint, req *dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(id uint) (*models.Category, error)
}

type CategoryServiceImpl struct {
	categories repositories.CategoryRepository
}

func NewCategoryService(categories repositories.CategoryRepository) CategoryService {
	return &CategoryServiceImpl{categories: categories}
}

func (s *CategoryServiceImpl) Create(req *dto.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.categories.Create(category); err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNameExists) {
			return nil, apperrors.ErrCategoryNameTaken
		}
		return nil, apperrors.InternalError(err)
	}
	return category, nil
}

func (s *CategoryServiceImpl) List() ([]repositories.CategoryWithCount, error) {
	categories, err := s.categories.ListWithCounts()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return categories, nil
}

func (s *CategoryServiceImpl) Get(id uint) (*models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return category, nil
}

func (s *CategoryServiceImpl) Update(id uint, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categories.Update(id, req.Patch())
	if err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrCategoryNotFound):
			return nil, apperrors.ErrCategoryNotFound
		case apperrors.Is(err, repositories.ErrCategoryNameExists):
			return nil, apperrors.ErrCategoryNameTaken
		}
		return nil, apperrors.InternalError(err)
	}
	return category, nil
}

// Delete refuses to remove a category that still has products pointing at
// it. The count check and the delete are separate statements, so a product
// created in between can slip through; products keep a nullable reference,
// which makes that window tolerable.
func (s *CategoryServiceImpl) Delete(id uint) (*models.Category, error) {
	count, err := s.categories.CountProducts(id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrCategoryInUse
	}

	category, err := s.categories.Delete(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return category, nil
}
