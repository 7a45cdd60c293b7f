package models

// Category groups products. A category cannot be deleted while any product
// still references it.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description string `json:"description"`
}
