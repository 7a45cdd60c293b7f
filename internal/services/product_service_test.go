package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/imageprocessor"
	"github.com/storefront/catalog/internal/services/dto"
)

func jpegPayload(t *testing.T) *dto.ImagePayload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return &dto.ImagePayload{Data: buf.Bytes(), ContentType: "image/jpeg"}
}

func newProductFixture() (ProductService, *fakeProductRepo, *fakeMediaStore) {
	repo := newFakeProductRepo()
	store := newFakeMediaStore()
	svc := NewProductService(repo, store, imageprocessor.NewProcessor(640, 80))
	return svc, repo, store
}

func createRequest(t *testing.T, title string) *dto.CreateProductRequest {
	t.Helper()
	return &dto.CreateProductRequest{
		Title:         title,
		SkuCode:       "SKU-1",
		Description:   "A running shoe",
		TotalQuantity: 10,
		CostPrice:     20,
		SellPrice:     35,
		ActiveStatus:  true,
		CreatorName:   "alice",
		CreatorRole:   "admin",
		Colors: []dto.ColorInput{
			{ColorName: "Red", ColorCode: "#f00", Quantity: 4},
			{ColorName: "Blue", ColorCode: "#00f", Quantity: 6},
		},
		Preview: jpegPayload(t),
		Gallery: []dto.ImagePayload{*jpegPayload(t), *jpegPayload(t), *jpegPayload(t)},
	}
}

func TestProductCreate(t *testing.T) {
	svc, repo, store := newProductFixture()

	product, err := svc.Create(context.Background(), createRequest(t, "Air Runner 2000"))
	require.NoError(t, err)

	assert.Equal(t, "air-runner-2000", product.Slug)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "alice", product.AddedByName)
	assert.NotEmpty(t, product.AddedDate)
	assert.NotZero(t, product.AddedYear)
	assert.Equal(t, product.AddedDate, product.LastUpdatedDate)

	require.NotNil(t, product.PreviewImage)
	assert.True(t, strings.Contains(*product.PreviewImage, "products/preview/"))

	assert.Len(t, store.uploads, 4, "one preview plus three gallery uploads")
	assert.Len(t, repo.colors[product.ID], 2)
	require.Len(t, repo.images[product.ID], 3)
	for _, url := range repo.images[product.ID] {
		assert.True(t, strings.Contains(url, "products/gallery/"))
	}
}

func TestProductCreateSlugConflict(t *testing.T) {
	svc, _, store := newProductFixture()

	_, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)
	uploaded := len(store.uploads)

	_, err = svc.Create(context.Background(), createRequest(t, "Air  Runner!"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSlug,
		"titles that normalize to the same slug must conflict")
	assert.Len(t, store.uploads, uploaded, "no uploads may happen once the pre-check fails")
}

func TestProductCreateUploadFailure(t *testing.T) {
	svc, repo, store := newProductFixture()
	store.failUpload = errors.New("bucket unavailable")

	_, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.Error(t, err)
	assert.Empty(t, repo.products, "no row may be written when uploads fail")
}

func TestProductGet(t *testing.T) {
	svc, _, _ := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)

	detail, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "air-runner", detail.Slug)
	assert.Len(t, detail.Colors, 2)
	assert.Len(t, detail.Images, 3)
}

func TestProductGetEmptyChildren(t *testing.T) {
	svc, _, _ := newProductFixture()

	req := createRequest(t, "Bare Product")
	req.Colors = nil
	req.Preview = nil
	req.Gallery = nil
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	detail, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.NotNil(t, detail.Colors, "colors must serialize as [] rather than null")
	assert.NotNil(t, detail.Images, "images must serialize as [] rather than null")
	assert.Empty(t, detail.Colors)
	assert.Empty(t, detail.Images)
}

func TestProductGetNotFound(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, err := svc.Get(42)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestProductUpdateSparse(t *testing.T) {
	svc, repo, _ := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)

	price := 29.99
	err = svc.Update(context.Background(), created.ID, &dto.UpdateProductRequest{
		SellPrice:  &price,
		EditorName: "bob",
		EditorRole: "manager",
	})
	require.NoError(t, err)

	assignments := repo.lastAssignments
	assert.Equal(t, 29.99, assignments["sell_price"])
	assert.Equal(t, "bob", assignments["last_updated_by_name"])
	assert.NotContains(t, assignments, "title", "omitted fields must not be assigned")
	assert.NotContains(t, assignments, "slug")
	assert.Nil(t, repo.lastColors, "omitted colors must leave child rows untouched")
	assert.Nil(t, repo.lastImages)
}

func TestProductUpdateTitleRecomputesSlug(t *testing.T) {
	svc, repo, _ := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)

	title := "Trail Blazer Pro"
	err = svc.Update(context.Background(), created.ID, &dto.UpdateProductRequest{
		Title:      &title,
		EditorName: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "trail-blazer-pro", repo.lastAssignments["slug"])
}

func TestProductUpdateSlugConflict(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), createRequest(t, "Trail Blazer"))
	require.NoError(t, err)

	title := "Air Runner"
	err = svc.Update(context.Background(), other.ID, &dto.UpdateProductRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateSlug)

	// keeping its own title is not a conflict with itself
	title = "Trail  Blazer"
	err = svc.Update(context.Background(), other.ID, &dto.UpdateProductRequest{Title: &title})
	assert.NoError(t, err)
}

func TestProductUpdateReplacesGallery(t *testing.T) {
	svc, repo, store := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)
	oldGallery := append([]string(nil), repo.images[created.ID]...)

	gallery := []dto.ImagePayload{*jpegPayload(t)}
	err = svc.Update(context.Background(), created.ID, &dto.UpdateProductRequest{Gallery: &gallery})
	require.NoError(t, err)

	require.NotNil(t, repo.lastImages)
	assert.Len(t, *repo.lastImages, 1)
	for _, url := range oldGallery {
		assert.Contains(t, store.deletes, url, "replaced gallery objects must be removed")
	}
}

func TestProductUpdateReplacesPreview(t *testing.T) {
	svc, repo, store := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)
	oldPreview := *repo.products[created.ID].PreviewImage

	err = svc.Update(context.Background(), created.ID, &dto.UpdateProductRequest{Preview: jpegPayload(t)})
	require.NoError(t, err)

	assert.Contains(t, store.deletes, oldPreview)
	newURL, ok := repo.lastAssignments["preview_image"].(string)
	require.True(t, ok)
	assert.NotEqual(t, oldPreview, newURL)
}

func TestProductUpdateMediaDeleteFailureIsNonFatal(t *testing.T) {
	svc, _, store := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)

	store.failDelete = errors.New("object store down")
	err = svc.Update(context.Background(), created.ID, &dto.UpdateProductRequest{Preview: jpegPayload(t)})
	assert.NoError(t, err, "failing to remove an old object must not fail the update")
}

func TestProductUpdateNotFound(t *testing.T) {
	svc, _, _ := newProductFixture()

	price := 9.99
	err := svc.Update(context.Background(), 42, &dto.UpdateProductRequest{SellPrice: &price})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestProductDelete(t *testing.T) {
	svc, repo, store := newProductFixture()

	created, err := svc.Create(context.Background(), createRequest(t, "Air Runner"))
	require.NoError(t, err)
	preview := *repo.products[created.ID].PreviewImage
	gallery := append([]string(nil), repo.images[created.ID]...)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

	assert.Contains(t, store.deletes, preview)
	for _, url := range gallery {
		assert.Contains(t, store.deletes, url)
	}

	// slug is free again once the product is gone
	_, err = svc.Create(context.Background(), createRequest(t, "Air Runner"))
	assert.NoError(t, err)
}

func TestProductDeleteNotFound(t *testing.T) {
	svc, _, _ := newProductFixture()

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestProductSearchEmptyQuery(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, err := svc.Search("   ")
	assert.ErrorIs(t, err, apperrors.ErrEmptySearchQuery)
}
