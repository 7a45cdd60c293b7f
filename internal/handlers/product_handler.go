package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storefront/catalog/internal/apperrors"
	"github.com/storefront/catalog/internal/cache"
	"github.com/storefront/catalog/internal/repositories"
	"github.com/storefront/catalog/internal/services"
	"github.com/storefront/catalog/internal/services/dto"
)

// maxGalleryImages caps a single multipart request.
const maxGalleryImages = 25

type ProductHandler struct {
	*BaseHandler
	productService services.ProductService
	cache          *cache.ProductCache
}

func NewProductHandler(base *BaseHandler, productService services.ProductService, productCache *cache.ProductCache) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
		cache:          productCache,
	}
}

// RegisterRoutes mounts the product endpoints. The search route must be
// registered before the :id route or gin would swallow "search" as an id.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	products := rg.Group("/products")
	{
		products.GET("/search", h.Search)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.POST("", authRequired, h.Create)
		products.PUT("/:id", authRequired, h.Update)
		products.DELETE("/:id", authRequired, h.Delete)
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.HandleServiceError(c, apperrors.BadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	req, err := buildCreateRequest(form)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), 0)
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	filter := repositories.ProductFilter{
		CategoryID: parseQueryUint(c, "categoryId"),
		MinPrice:   parseQueryFloat(c, "minPrice"),
		MaxPrice:   parseQueryFloat(c, "maxPrice"),
		Page:       ParseQueryInt(c, "page", 0),
		Limit:      ParseQueryInt(c, "limit", 0),
	}

	// only the plain unfiltered listing is cached
	cacheable := filter.CategoryID == nil && filter.MinPrice == nil && filter.MaxPrice == nil &&
		filter.Page == 0 && filter.Limit == 0

	if cacheable {
		if payload, ok := h.cache.GetList(c.Request.Context()); ok {
			c.Data(http.StatusOK, "application/json", payload)
			return
		}
	}

	rows, err := h.productService.List(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if cacheable {
		if payload, err := json.Marshal(rows); err == nil {
			h.cache.SetList(c.Request.Context(), payload)
		}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if payload, ok := h.cache.GetProduct(c.Request.Context(), id); ok {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	detail, err := h.productService.Get(id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if payload, err := json.Marshal(detail); err == nil {
		h.cache.SetProduct(c.Request.Context(), id, payload)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.HandleServiceError(c, apperrors.BadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	req, err := buildUpdateRequest(form)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.productService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.cache.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) Search(c *gin.Context) {
	rows, err := h.productService.Search(c.Query("q"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func buildCreateRequest(form *multipart.Form) (*dto.CreateProductRequest, error) {
	title, _ := formValue(form, "title")
	if title == "" {
		return nil, apperrors.BadRequestError("Product title is required")
	}

	req := &dto.CreateProductRequest{Title: title}
	req.SkuCode, _ = formValue(form, "skuCode")
	req.Description, _ = formValue(form, "description")
	req.Category, _ = formValue(form, "category")
	req.Subcategory, _ = formValue(form, "subcategory")
	req.CreatorName, _ = formValue(form, "addedByName")
	req.CreatorRole, _ = formValue(form, "addedByRole")

	var err error
	if req.CategoryID, err = formUint(form, "categoryId"); err != nil {
		return nil, err
	}

	if v, err := formInt(form, "totalQuantity"); err != nil {
		return nil, err
	} else if v != nil {
		req.TotalQuantity = *v
	}
	if v, err := formFloat(form, "costPrice"); err != nil {
		return nil, err
	} else if v != nil {
		req.CostPrice = *v
	}
	if v, err := formFloat(form, "sellPrice"); err != nil {
		return nil, err
	} else if v != nil {
		req.SellPrice = *v
	}
	if v, err := formFloat(form, "offerPrice"); err != nil {
		return nil, err
	} else if v != nil {
		req.OfferPrice = *v
	}
	if v, err := formBool(form, "activeStatus"); err != nil {
		return nil, err
	} else if v != nil {
		req.ActiveStatus = *v
	}

	if raw, ok := formValue(form, "colors"); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Colors); err != nil {
			return nil, apperrors.BadRequestError("Invalid colors payload: " + err.Error())
		}
	}

	if req.Preview, err = singleUpload(form, "previewImage"); err != nil {
		return nil, err
	}

	gallery, err := galleryUploads(form)
	if err != nil {
		return nil, err
	}
	if gallery != nil {
		req.Gallery = *gallery
	}

	return req, nil
}

func buildUpdateRequest(form *multipart.Form) (*dto.UpdateProductRequest, error) {
	req := &dto.UpdateProductRequest{}

	if v, ok := formValue(form, "title"); ok {
		if v == "" {
			return nil, apperrors.BadRequestError("Product title cannot be empty")
		}
		req.Title = &v
	}
	if v, ok := formValue(form, "skuCode"); ok {
		req.SkuCode = &v
	}
	if v, ok := formValue(form, "description"); ok {
		req.Description = &v
	}
	if v, ok := formValue(form, "category"); ok {
		req.Category = &v
	}
	if v, ok := formValue(form, "subcategory"); ok {
		req.Subcategory = &v
	}
	req.EditorName, _ = formValue(form, "updatedByName")
	req.EditorRole, _ = formValue(form, "updatedByRole")

	var err error
	if req.CategoryID, err = formUint(form, "categoryId"); err != nil {
		return nil, err
	}
	if req.TotalQuantity, err = formInt(form, "totalQuantity"); err != nil {
		return nil, err
	}
	if req.CostPrice, err = formFloat(form, "costPrice"); err != nil {
		return nil, err
	}
	if req.SellPrice, err = formFloat(form, "sellPrice"); err != nil {
		return nil, err
	}
	if req.OfferPrice, err = formFloat(form, "offerPrice"); err != nil {
		return nil, err
	}
	if req.ActiveStatus, err = formBool(form, "activeStatus"); err != nil {
		return nil, err
	}

	if raw, ok := formValue(form, "colors"); ok {
		colors := []dto.ColorInput{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &colors); err != nil {
				return nil, apperrors.BadRequestError("Invalid colors payload: " + err.Error())
			}
		}
		req.Colors = &colors
	}

	if req.Preview, err = singleUpload(form, "previewImage"); err != nil {
		return nil, err
	}
	if req.Gallery, err = galleryUploads(form); err != nil {
		return nil, err
	}

	return req, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formUint(form *multipart.Form, key string) (*uint, error) {
	raw, ok := formValue(form, key)
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperrors.BadRequestError("Invalid " + key + " value")
	}
	v := uint(value)
	return &v, nil
}

func formInt(form *multipart.Form, key string) (*int, error) {
	raw, ok := formValue(form, key)
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.BadRequestError("Invalid " + key + " value")
	}
	return &value, nil
}

func formFloat(form *multipart.Form, key string) (*float64, error) {
	raw, ok := formValue(form, key)
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.BadRequestError("Invalid " + key + " value")
	}
	return &value, nil
}

func formBool(form *multipart.Form, key string) (*bool, error) {
	raw, ok := formValue(form, key)
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.BadRequestError("Invalid " + key + " value")
	}
	return &value, nil
}

func singleUpload(form *multipart.Form, key string) (*dto.ImagePayload, error) {
	files := form.File[key]
	if len(files) == 0 {
		return nil, nil
	}
	return readUpload(files[0])
}

// galleryUploads distinguishes "field absent" (nil, keep existing images)
// from "field present but empty" (empty slice, clear the gallery).
func galleryUploads(form *multipart.Form) (*[]dto.ImagePayload, error) {
	files, ok := form.File["images"]
	if !ok {
		return nil, nil
	}
	if len(files) > maxGalleryImages {
		return nil, apperrors.BadRequestError("Too many gallery images")
	}

	gallery := make([]dto.ImagePayload, 0, len(files))
	for _, fh := range files {
		payload, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		gallery = append(gallery, *payload)
	}
	return &gallery, nil
}

func readUpload(fh *multipart.FileHeader) (*dto.ImagePayload, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, apperrors.BadRequestError("Cannot read uploaded file: " + err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.BadRequestError("Cannot read uploaded file: " + err.Error())
	}

	return &dto.ImagePayload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
