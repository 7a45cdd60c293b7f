package models

// Product is the catalog aggregate root. Colors and Images are owned child
// rows: updates replace them wholesale, they are never diffed.
type Product struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Title         string  `gorm:"size:255;not null" json:"title"`
	Slug          string  `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	SkuCode       string  `gorm:"size:100" json:"sku_code"`
	Description   string  `json:"description"`
	Category      string  `gorm:"size:255" json:"category"`
	Subcategory   string  `gorm:"size:255" json:"subcategory"`
	TotalQuantity int     `json:"total_quantity"`
	CostPrice     float64 `gorm:"type:decimal(10,2)" json:"cost_price"`
	SellPrice     float64 `gorm:"type:decimal(10,2)" json:"sell_price"`
	OfferPrice    float64 `gorm:"type:decimal(10,2)" json:"offer_price"`
	TotalSold     int     `gorm:"default:0" json:"total_sold"`
	ActiveStatus  bool    `json:"active_status"`

	// Audit trail, stamped by the service on create and on every update.
	AddedByName       string `gorm:"size:255" json:"added_by_name"`
	AddedByRole       string `gorm:"size:100" json:"added_by_role"`
	AddedDate         string `gorm:"size:100" json:"added_date"`
	AddedDay          int    `json:"added_day"`
	AddedMonth        int    `json:"added_month"`
	AddedYear         int    `json:"added_year"`
	LastUpdatedDate   string `gorm:"size:100" json:"last_updated_date"`
	LastUpdatedByName string `gorm:"size:255" json:"last_updated_by_name"`
	LastUpdatedByRole string `gorm:"size:100" json:"last_updated_by_role"`

	PreviewImage *string `gorm:"size:512" json:"preview_image"`
	CategoryID   *uint   `gorm:"index" json:"category_id"`

	Colors []ProductColor `gorm:"foreignKey:ProductID" json:"colors,omitempty"`
	Images []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
}

type ProductColor struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProductID uint   `gorm:"index;not null" json:"-"`
	ColorName string `gorm:"size:100" json:"color_name"`
	ColorCode string `gorm:"size:50" json:"color_code"`
	Quantity  int    `json:"quantity"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProductID uint   `gorm:"index;not null" json:"-"`
	ImagePath string `gorm:"size:512;not null" json:"image_path"`
}
