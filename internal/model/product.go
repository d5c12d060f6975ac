package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductCategory groups products. Deleting a category deletes its products.
type ProductCategory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Description  string    `json:"description" gorm:"type:text"`
	Image        string    `json:"image" gorm:"size:512"`
	DisplayOrder int       `json:"displayOrder" gorm:"default:0;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// Product is a catalogue entry with optional pricing and markdown content.
type Product struct {
	ID            uint                `json:"id" gorm:"primaryKey"`
	CategoryID    uint                `json:"categoryId" gorm:"not null;index"`
	Name          string              `json:"name" gorm:"size:255;not null;index"`
	Summary       string              `json:"summary" gorm:"type:text"`
	Content       string              `json:"content" gorm:"type:text"` // markdown
	Specs         string              `json:"specs" gorm:"type:text"`
	Price         decimal.NullDecimal `json:"price" gorm:"type:decimal(12,2)"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice" gorm:"type:decimal(12,2)"`
	Image         string              `json:"image" gorm:"size:512"`
	Featured      bool                `json:"featured" gorm:"default:false;index"`
	DisplayOrder  int                 `json:"displayOrder" gorm:"default:0;index"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`

	Category *ProductCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
