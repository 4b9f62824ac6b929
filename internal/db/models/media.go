package models

import (
	"time"
)

// StorageProvider names the backend holding a media object.
type StorageProvider string

const (
	// StorageLocal stores files on the local filesystem.
	StorageLocal StorageProvider = "local"
	// StorageS3 stores files in an AWS S3 bucket.
	StorageS3 StorageProvider = "s3"
	// StorageCloudflare stores files in a Cloudflare R2 bucket.
	StorageCloudflare StorageProvider = "cloudflare"
)

// Media is an uploaded image.
//
// Content rows reference media by id without a database foreign key. Deleting a
// media row leaves those ids dangling; they resolve to no media.
type Media struct {
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Filename is the object key inside the storage provider.
	Filename string `gorm:"size:255;not null" json:"filename"`
	// OriginalFilename is the name the file was uploaded with.
	OriginalFilename string `gorm:"size:255;not null" json:"originalFilename"`
	StorageProvider  StorageProvider `gorm:"type:varchar(20);not null" json:"storageProvider"`
	// URL is the public address of the object.
	URL        string    `gorm:"size:1024;not null" json:"url"`
	AltText    *string   `gorm:"size:500" json:"altText"`
	Width      *int      `json:"width"`
	Height     *int      `json:"height"`
	SizeBytes  int64     `gorm:"not null" json:"sizeBytes"`
	MimeType   string    `gorm:"size:100;not null" json:"mimeType"`
	UploadedBy *uint64   `gorm:"index" json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName sets the table name.
func (Media) TableName() string { return "media" }

// MediaReferrer is implemented by content rows pointing at a media row.
type MediaReferrer interface {
	// MediaRef returns the referenced media id, nil if none.
	MediaRef() *uint64
	// AttachMedia stores the resolved media (nil when absent) on the row.
	AttachMedia(m *Media)
}
