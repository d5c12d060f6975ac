package model

import "time"

// SingletonID is the primary key of the only SiteInfo and SiteMeta rows.
const SingletonID = 1

// SiteInfo holds company contact details, social links, map settings and
// compliance identifiers. Exactly one row exists.
type SiteInfo struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	CompanyName  string  `json:"companyName" gorm:"size:255"`
	Slogan       string  `json:"slogan" gorm:"size:255"`
	Address      string  `json:"address" gorm:"size:512"`
	Phone        string  `json:"phone" gorm:"size:64"`
	Mobile       string  `json:"mobile" gorm:"size:64"`
	Email        string  `json:"email" gorm:"size:255"`
	Fax          string  `json:"fax" gorm:"size:64"`
	WorkingHours string  `json:"workingHours" gorm:"size:255"`
	Wechat       string  `json:"wechat" gorm:"size:255"`
	Weibo        string  `json:"weibo" gorm:"size:255"`
	Douyin       string  `json:"douyin" gorm:"size:255"`
	Linkedin     string  `json:"linkedin" gorm:"size:255"`
	MapAK        string  `json:"mapAk" gorm:"column:map_ak;size:128"`
	MapLat       float64 `json:"mapLat"`
	MapLng       float64 `json:"mapLng"`
	MapZoom      int     `json:"mapZoom" gorm:"default:15"`
	ICP          string  `json:"icp" gorm:"column:icp;size:128"`
	PoliceRecord string  `json:"policeRecord" gorm:"size:128"`
	// Version increments on every update; clients may echo it back to
	// reject stale writes.
	Version   int       `json:"version" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the singleton table name singular.
func (SiteInfo) TableName() string {
	return "site_info"
}

// SiteMeta holds SEO fields. Exactly one row exists.
type SiteMeta struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Keywords    string    `json:"keywords" gorm:"size:512"`
	Favicon     string    `json:"favicon" gorm:"size:512"`
	OGImage     string    `json:"ogImage" gorm:"column:og_image;size:512"`
	Version     int       `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName keeps the singleton table name singular.
func (SiteMeta) TableName() string {
	return "site_meta"
}
