package dto

import "github.com/storefront/catalog/internal/models"

// ColorInput is one entry of the JSON-encoded color array sent alongside
// the multipart product form.
type ColorInput struct {
	ColorName string `json:"color_name"`
	ColorCode string `json:"color_code"`
	Quantity  int    `json:"quantity"`
}

// ImagePayload is an uploaded image as raw bytes; the service optimizes it
// before it reaches the media store.
type ImagePayload struct {
	Data        []byte
	ContentType string
}

type CreateProductRequest struct {
	Title         string
	SkuCode       string
	Description   string
	Category      string
	Subcategory   string
	CategoryID    *uint
	TotalQuantity int
	CostPrice     float64
	SellPrice     float64
	OfferPrice    float64
	ActiveStatus  bool

	CreatorName string
	CreatorRole string

	Colors  []ColorInput
	Preview *ImagePayload
	Gallery []ImagePayload
}

// UpdateProductRequest is the partial form of the create request: nil means
// "leave unchanged". A non-nil Colors or Gallery replaces the respective
// child set wholesale.
type UpdateProductRequest struct {
	Title         *string
	SkuCode       *string
	Description   *string
	Category      *string
	Subcategory   *string
	CategoryID    *uint
	TotalQuantity *int
	CostPrice     *float64
	SellPrice     *float64
	OfferPrice    *float64
	ActiveStatus  *bool

	EditorName string
	EditorRole string

	Colors  *[]ColorInput
	Preview *ImagePayload
	Gallery *[]ImagePayload
}

// ProductPatch is the sparse column update for a product row. Only fields
// the caller supplied are emitted; the last-updated audit columns are
// stamped on every update. gorm sorts map keys when it renders the UPDATE
// statement, so the emitted column order is stable.
type ProductPatch struct {
	Title         *string
	Slug          *string
	SkuCode       *string
	Description   *string
	Category      *string
	Subcategory   *string
	CategoryID    *uint
	TotalQuantity *int
	CostPrice     *float64
	SellPrice     *float64
	OfferPrice    *float64
	ActiveStatus  *bool
	PreviewImage  *string

	UpdatedByName string
	UpdatedByRole string
	UpdatedDate   string
}

func (p *ProductPatch) Assignments() map[string]interface{} {
	assignments := make(map[string]interface{})

	if p.Title != nil {
		assignments["title"] = *p.Title
	}
	if p.Slug != nil {
		assignments["slug"] = *p.Slug
	}
	if p.SkuCode != nil {
		assignments["sku_code"] = *p.SkuCode
	}
	if p.Description != nil {
		assignments["description"] = *p.Description
	}
	if p.Category != nil {
		assignments["category"] = *p.Category
	}
	if p.Subcategory != nil {
		assignments["subcategory"] = *p.Subcategory
	}
	if p.CategoryID != nil {
		assignments["category_id"] = *p.CategoryID
	}
	if p.TotalQuantity != nil {
		assignments["total_quantity"] = *p.TotalQuantity
	}
	if p.CostPrice != nil {
		assignments["cost_price"] = *p.CostPrice
	}
	if p.SellPrice != nil {
		assignments["sell_price"] = *p.SellPrice
	}
	if p.OfferPrice != nil {
		assignments["offer_price"] = *p.OfferPrice
	}
	if p.ActiveStatus != nil {
		assignments["active_status"] = *p.ActiveStatus
	}
	if p.PreviewImage != nil {
		assignments["preview_image"] = *p.PreviewImage
	}

	assignments["last_updated_by_name"] = p.UpdatedByName
	assignments["last_updated_by_role"] = p.UpdatedByRole
	assignments["last_updated_date"] = p.UpdatedDate

	return assignments
}

// ProductDetailResponse is the GET-by-id payload: the product row, its
// color list and the flattened image URL list.
type ProductDetailResponse struct {
	models.Product
	Colors []models.ProductColor `json:"colors"`
	Images []string              `json:"images"`
}
