package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/services/dto"
)

func TestCategoryCreate(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	category, err := svc.Create(&dto.CreateCategoryRequest{Name: "Shoes", Description: "Footwear"})
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, "Shoes", category.Name)
}

func TestCategoryCreateDuplicateName(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	_, err := svc.Create(&dto.CreateCategoryRequest{Name: "Shoes"})
	require.NoError(t, err)

	_, err = svc.Create(&dto.CreateCategoryRequest{Name: "Shoes"})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNameTaken)
}

func TestCategoryUpdate(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	created, err := svc.Create(&dto.CreateCategoryRequest{Name: "Shoes", Description: "Footwear"})
	require.NoError(t, err)

	name := "Sneakers"
	updated, err := svc.Update(created.ID, &dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sneakers", updated.Name)
	assert.Equal(t, "Footwear", updated.Description, "omitted field must stay unchanged")
}

func TestCategoryUpdateNotFound(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	name := "Sneakers"
	_, err := svc.Update(99, &dto.UpdateCategoryRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCategoryDelete(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	created, err := svc.Create(&dto.CreateCategoryRequest{Name: "Shoes"})
	require.NoError(t, err)

	deleted, err := svc.Delete(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCategoryDeleteWithLinkedProducts(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	created, err := svc.Create(&dto.CreateCategoryRequest{Name: "Shoes"})
	require.NoError(t, err)
	repo.productCount[created.ID] = 3

	_, err = svc.Delete(created.ID)
	assert.ErrorIs(t, err, apperrors.ErrCategoryInUse)
	assert.Zero(t, repo.deleteCalls, "guard must short-circuit before any delete statement")
}

func TestCategoryList(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	created, err := svc.Create(&dto.CreateCategoryRequest{Name: "Shoes"})
	require.NoError(t, err)
	repo.productCount[created.ID] = 2

	rows, err := svc.List()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ProductCount)
}
