package upload

import (
	"fmt"
	"strings"
)

const megabyte = 1 << 20

// Category describes one upload destination and what it accepts.
type Category struct {
	Name string
	// Field is the multipart form field holding the file.
	Field   string
	MaxSize int64
	// AllowedTypes is the MIME allow-list.
	AllowedTypes []string
	// AllowedExts is consulted when the MIME type is not in AllowedTypes;
	// browsers report many office formats inconsistently. Files whose
	// extension is not listed are stored under their MIME type's extension.
	AllowedExts []string
	// Description names the accepted formats in rejection messages.
	Description string
}

// ImageTypes are accepted for every image category.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// DocumentTypes are accepted for downloadable documents.
var DocumentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"application/zip",
	"application/x-zip-compressed",
	"application/x-rar-compressed",
	"application/vnd.rar",
	"application/x-7z-compressed",
	"text/plain",
	"text/csv",
}

// DocumentExts is the extension fallback for documents.
var DocumentExts = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".zip", ".rar", ".7z", ".txt", ".csv",
}

const (
	imageDescription    = "JPEG, PNG, GIF or WebP images"
	documentDescription = "PDF, Word, Excel, PowerPoint, ZIP, RAR, 7z, TXT or CSV files"
)

// DefaultCategories returns the content categories served under /uploads.
func DefaultCategories() map[string]Category {
	image := func(name string, maxMB int64) Category {
		return Category{
			Name:         name,
			Field:        "image",
			MaxSize:      maxMB * megabyte,
			AllowedTypes: ImageTypes,
			Description:  imageDescription,
		}
	}
	return map[string]Category{
		"products": image("products", 50),
		"cases":    image("cases", 10),
		"news":     image("news", 10),
		"gallery":  image("gallery", 10),
		"hero":     image("hero", 10),
		"documents": {
			Name:         "documents",
			Field:        "file",
			MaxSize:      50 * megabyte,
			AllowedTypes: DocumentTypes,
			AllowedExts:  DocumentExts,
			Description:  documentDescription,
		},
	}
}

func (c Category) allowsType(mimeType string) bool {
	for _, t := range c.AllowedTypes {
		if strings.EqualFold(t, mimeType) {
			return true
		}
	}
	return false
}

func (c Category) allowsExt(ext string) bool {
	for _, e := range c.AllowedExts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func (c Category) limitText() string {
	return fmt.Sprintf("%d MB", c.MaxSize/megabyte)
}
