package model

import "time"

// Case is a customer project showcased on the site.
type Case struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Client       string    `json:"client" gorm:"size:255"`
	Industry     string    `json:"industry" gorm:"size:128"`
	Summary      string    `json:"summary" gorm:"type:text"`
	Content      string    `json:"content" gorm:"type:text"`
	Image        string    `json:"image" gorm:"size:512"`
	Featured     bool      `json:"featured" gorm:"default:false;index"`
	DisplayOrder int       `json:"displayOrder" gorm:"default:0;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// News is a company announcement or article.
type News struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"size:255;not null"`
	Summary      string     `json:"summary" gorm:"type:text"`
	Content      string     `json:"content" gorm:"type:text"`
	Image        string     `json:"image" gorm:"size:512"`
	Author       string     `json:"author" gorm:"size:128"`
	PublishedAt  *time.Time `json:"publishedAt"`
	Featured     bool       `json:"featured" gorm:"default:false;index"`
	DisplayOrder int        `json:"displayOrder" gorm:"default:0;index"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TableName keeps the plural-less entity name.
func (News) TableName() string {
	return "news"
}

// Document is a downloadable file (brochure, manual, certificate).
type Document struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"size:128;index"`
	FileURL     string    `json:"fileUrl" gorm:"size:512;not null"`
	FileName    string    `json:"fileName" gorm:"size:255"`
	FileSize    int64     `json:"fileSize"`
	FileType    string    `json:"fileType" gorm:"size:128"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Gallery is a standalone image with a caption.
type Gallery struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:255"`
	Description  string    `json:"description" gorm:"type:text"`
	Category     string    `json:"category" gorm:"size:128;index"`
	Image        string    `json:"image" gorm:"size:512;not null"`
	DisplayOrder int       `json:"displayOrder" gorm:"default:0;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName keeps the plural-less entity name.
func (Gallery) TableName() string {
	return "gallery"
}

// HeroSlide is a homepage carousel entry.
type HeroSlide struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"size:255"`
	Subtitle     string    `json:"subtitle" gorm:"size:512"`
	Image        string    `json:"image" gorm:"size:512;not null"`
	Link         string    `json:"link" gorm:"size:512"`
	DisplayOrder int       `json:"displayOrder" gorm:"default:0;index"`
	Active       bool      `json:"active" gorm:"not null;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
