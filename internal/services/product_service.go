package services

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/imageprocessor"
	"github.com/storefront/catalog/internal/logger"
	"github.com/storefront/catalog/internal/media"
	"github.com/storefront/catalog/internal/models"
	"github.com/storefront/catalog/internal/repositories"
	"github.com/storefront/catalog/internal/services/dto"
	"github.com/storefront/catalog/internal/slug"
)

const (
	previewNamespace = "products/preview"
	galleryNamespace = "products/gallery"

	auditTimeLayout = "2006-01-02 15:04:05"
)

type ProductService interface {
	Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error)
	Get(id uint) (*dto.ProductDetailResponse, error)
	List(filter repositories.ProductFilter) ([]repositories.ProductSummary, error)
	Search(query string) ([]repositories.ProductSummary, error)
	Update(ctx context.Context, id uint, req *dto.UpdateProductRequest) error
	Delete(ctx context.Context, id uint) error
}

type ProductServiceImpl struct {
	products  repositories.ProductRepository
	media     media.Store
	optimizer *imageprocessor.Processor
}

func NewProductService(products repositories.ProductRepository, store media.Store, optimizer *imageprocessor.Processor) ProductService {
	return &ProductServiceImpl{
		products:  products,
		media:     store,
		optimizer: optimizer,
	}
}

// Create uploads the images first and writes the relational rows second, in
// one transaction. The slug check here is advisory only; the repository
// repeats it inside the transaction, so a lost race still surfaces as a
// duplicate-slug conflict. Uploads that already went through are not
// retracted when the transaction fails, which can strand objects in the
// media store.
func (s *ProductServiceImpl) Create(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	productSlug := slug.Make(req.Title)

	exists, err := s.products.SlugExists(productSlug, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateSlug
	}

	var previewURL *string
	if req.Preview != nil {
		url, err := s.uploadImage(ctx, previewNamespace, req.Preview)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		previewURL = &url
	}

	galleryURLs, err := s.uploadGallery(ctx, req.Gallery)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	product := &models.Product{
		Title:         req.Title,
		Slug:          productSlug,
		SkuCode:       req.SkuCode,
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		TotalQuantity: req.TotalQuantity,
		CostPrice:     req.CostPrice,
		SellPrice:     req.SellPrice,
		OfferPrice:    req.OfferPrice,
		ActiveStatus:  req.ActiveStatus,

		AddedByName:       req.CreatorName,
		AddedByRole:       req.CreatorRole,
		AddedDate:         now.Format(auditTimeLayout),
		AddedDay:          now.Day(),
		AddedMonth:        int(now.Month()),
		AddedYear:         now.Year(),
		LastUpdatedDate:   now.Format(auditTimeLayout),
		LastUpdatedByName: req.CreatorName,
		LastUpdatedByRole: req.CreatorRole,

		PreviewImage: previewURL,
		CategoryID:   req.CategoryID,
	}

	if err := s.products.CreateFull(product, colorRows(req.Colors), galleryURLs); err != nil {
		if apperrors.Is(err, repositories.ErrDuplicateSlug) {
			return nil, apperrors.ErrDuplicateSlug
		}
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Get(id uint) (*dto.ProductDetailResponse, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	colors := product.Colors
	if colors == nil {
		colors = []models.ProductColor{}
	}
	images := make([]string, 0, len(product.Images))
	for _, img := range product.Images {
		images = append(images, img.ImagePath)
	}

	product.Colors = nil
	product.Images = nil

	return &dto.ProductDetailResponse{
		Product: *product,
		Colors:  colors,
		Images:  images,
	}, nil
}

func (s *ProductServiceImpl) List(filter repositories.ProductFilter) ([]repositories.ProductSummary, error) {
	rows, err := s.products.List(filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return rows, nil
}

func (s *ProductServiceImpl) Search(query string) ([]repositories.ProductSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrEmptySearchQuery
	}

	rows, err := s.products.Search(query)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return rows, nil
}

// Update applies a sparse patch. A new title recomputes the slug; a new
// preview or gallery uploads the replacement first, then removes the old
// objects best-effort. The relational write itself runs in one repository
// transaction; media deletion failures are logged and never fail the
// request.
func (s *ProductServiceImpl) Update(ctx context.Context, id uint, req *dto.UpdateProductRequest) error {
	now := time.Now()
	patch := &dto.ProductPatch{
		SkuCode:       req.SkuCode,
		Description:   req.Description,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		CategoryID:    req.CategoryID,
		TotalQuantity: req.TotalQuantity,
		CostPrice:     req.CostPrice,
		SellPrice:     req.SellPrice,
		OfferPrice:    req.OfferPrice,
		ActiveStatus:  req.ActiveStatus,

		UpdatedByName: req.EditorName,
		UpdatedByRole: req.EditorRole,
		UpdatedDate:   now.Format(auditTimeLayout),
	}

	if req.Title != nil {
		newSlug := slug.Make(*req.Title)
		exists, err := s.products.SlugExists(newSlug, id)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if exists {
			return apperrors.ErrDuplicateSlug
		}
		patch.Title = req.Title
		patch.Slug = &newSlug
	}

	if req.Preview != nil {
		oldURL, err := s.products.PreviewURL(id)
		if err != nil {
			if apperrors.Is(err, repositories.ErrProductNotFound) {
				return apperrors.ErrProductNotFound
			}
			return apperrors.InternalError(err)
		}
		if oldURL != nil {
			logger.MediaCleanup("replace preview", *oldURL, s.media.Delete(ctx, *oldURL))
		}

		url, err := s.uploadImage(ctx, previewNamespace, req.Preview)
		if err != nil {
			return apperrors.InternalError(err)
		}
		patch.PreviewImage = &url
	}

	var colors *[]models.ProductColor
	if req.Colors != nil {
		rows := colorRows(*req.Colors)
		colors = &rows
	}

	var galleryURLs *[]string
	if req.Gallery != nil {
		oldURLs, err := s.products.GalleryURLs(id)
		if err != nil {
			return apperrors.InternalError(err)
		}
		for _, url := range oldURLs {
			logger.MediaCleanup("replace gallery", url, s.media.Delete(ctx, url))
		}

		urls, err := s.uploadGallery(ctx, *req.Gallery)
		if err != nil {
			return apperrors.InternalError(err)
		}
		galleryURLs = &urls
	}

	if err := s.products.UpdateFull(id, patch.Assignments(), colors, galleryURLs); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrProductNotFound):
			return apperrors.ErrProductNotFound
		case apperrors.Is(err, repositories.ErrDuplicateSlug):
			return apperrors.ErrDuplicateSlug
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// Delete removes the relational rows first; the attached media objects are
// deleted only after the transaction committed, best-effort.
func (s *ProductServiceImpl) Delete(ctx context.Context, id uint) error {
	previewURL, galleryURLs, err := s.products.DeleteFull(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProductNotFound) {
			return apperrors.ErrProductNotFound
		}
		return apperrors.InternalError(err)
	}

	if previewURL != nil {
		logger.MediaCleanup("delete preview", *previewURL, s.media.Delete(ctx, *previewURL))
	}
	for _, url := range galleryURLs {
		logger.MediaCleanup("delete gallery", url, s.media.Delete(ctx, url))
	}
	return nil
}

// uploadImage runs the optimizer before the upload. An image that cannot
// be decoded is stored as-is rather than rejected; the warning leaves a
// trace for unsupported formats.
func (s *ProductServiceImpl) uploadImage(ctx context.Context, namespace string, img *dto.ImagePayload) (string, error) {
	data, contentType := img.Data, img.ContentType
	if s.optimizer != nil {
		optimized, ct, err := s.optimizer.Optimize(data)
		if err != nil {
			logger.Warn("image optimization failed, storing original", "content_type", contentType, "error", err)
		} else {
			data, contentType = optimized, ct
		}
	}
	return s.media.Upload(ctx, namespace, bytes.NewReader(data), contentType)
}

// uploadGallery pushes all gallery images concurrently. The stored order is
// completion order, not submission order; one failed upload cancels the
// group and fails the request, but uploads that finished stay in the store.
func (s *ProductServiceImpl) uploadGallery(ctx context.Context, images []dto.ImagePayload) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	urls := make([]string, 0, len(images))

	g, ctx := errgroup.WithContext(ctx)
	for i := range images {
		img := images[i]
		g.Go(func() error {
			url, err := s.uploadImage(ctx, galleryNamespace, &img)
			if err != nil {
				return err
			}
			mu.Lock()
			urls = append(urls, url)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func colorRows(inputs []dto.ColorInput) []models.ProductColor {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]models.ProductColor, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, models.ProductColor{
			ColorName: in.ColorName,
			ColorCode: in.ColorCode,
			Quantity:  in.Quantity,
		})
	}
	return rows
}
