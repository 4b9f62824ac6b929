package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp" // register decoder
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/util"
)

const (
	resourceName = "media"

	// DefaultMaxBytes is the upload limit when none is given.
	DefaultMaxBytes = 10 << 20

	mimeSVG = "image/svg+xml"
)

// AllowedTypes lists the accepted upload types.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", mimeSVG}

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Upload is the input of Service.Upload.
type Upload struct {
	Filename   string
	Data       []byte
	AltText    *string
	UploadedBy *uint64
}

// Service stores uploads in a Storage and records them in the media table.
type Service struct {
	db       *gorm.DB
	storage  Storage
	maxBytes int64
	now      func() time.Time
}

// NewService creates the media service. A maxBytes of 0 means DefaultMaxBytes.
func NewService(db *gorm.DB, storage Storage, maxBytes int64) (*Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Service{db: db, storage: storage, maxBytes: maxBytes, now: time.Now}, nil
}

// MaxBytes returns the upload limit.
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload checks the file, stores it and records it.
// Only images of AllowedTypes up to MaxBytes are accepted; the type is sniffed from the content.
func (s *Service) Upload(ctx context.Context, in Upload) (*models.Media, error) {
	if len(in.Data) == 0 {
		return nil, apperr.Invalid("file", "required", "is required")
	}

	if int64(len(in.Data)) > s.maxBytes {
		return nil, apperr.Invalid("file", "max", fmt.Sprintf("must be at most %d MB", s.maxBytes>>20)) //nolint:mnd
	}

	contentType, ext, ok := detect(in.Data)
	if !ok {
		return nil, apperr.Invalid("file", "image", "must be a JPEG, PNG, GIF, WEBP or SVG image")
	}

	item := &models.Media{
		OriginalFilename: util.StripTags(filepath.Base(filepath.Clean("/" + in.Filename))),
		StorageProvider:  s.storage.Provider(),
		AltText:          util.StripTagsPtr(in.AltText),
		SizeBytes:        int64(len(in.Data)),
		MimeType:         contentType,
		UploadedBy:       in.UploadedBy,
	}

	if contentType != mimeSVG {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Data))
		if err != nil {
			return nil, apperr.Invalid("file", "image", "is not a readable image")
		}

		item.Width = &cfg.Width
		item.Height = &cfg.Height
	}

	item.Filename = s.now().UTC().Format("2006/01") + "/" + uuid.NewString() + ext
	if item.OriginalFilename == "" || item.OriginalFilename == "/" {
		item.OriginalFilename = filepath.Base(item.Filename)
	}

	url, err := s.storage.Put(ctx, item.Filename, in.Data, contentType)
	if err != nil {
		return nil, apperr.Storage("store media object", err)
	}

	item.URL = url

	if err = s.db.WithContext(ctx).Create(item).Error; err != nil {
		if errDel := s.storage.Delete(ctx, item.Filename); errDel != nil {
			log.Error().Err(errDel).Str("key", item.Filename).Msg("failed to remove orphaned media object")
		}

		return nil, apperr.Storage("create "+resourceName, err)
	}

	return item, nil
}

// detect returns the content type and file extension of data if it is an allowed image.
func detect(data []byte) (string, string, bool) {
	mt := mimetype.Detect(data)

	for _, allowed := range AllowedTypes {
		if mt.Is(allowed) {
			return allowed, mt.Extension(), true
		}
	}

	return "", "", false
}

// Get retrieves a media row by its ID.
func (s *Service) Get(ctx context.Context, id uint64) (*models.Media, error) {
	var item models.Media

	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(resourceName)
	}

	if err != nil {
		return nil, apperr.Storage("get "+resourceName, err)
	}

	return &item, nil
}

// List returns every media row, newest first.
func (s *Service) List(ctx context.Context) ([]models.Media, error) {
	items := []models.Media{}

	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, apperr.Storage("list "+resourceName, err)
	}

	return items, nil
}

// Delete removes the media row and its object.
// Content rows still pointing at it are left alone; their reference resolves to no media.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Media{}, id)
	if result.Error != nil {
		return apperr.Storage("delete "+resourceName, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(resourceName)
	}

	if item.StorageProvider != s.storage.Provider() {
		log.Warn().Uint64("media_id", id).Str("provider", string(item.StorageProvider)).
			Msg("media object kept, stored with another provider")

		return nil
	}

	if err = s.storage.Delete(ctx, item.Filename); err != nil {
		log.Error().Err(err).Uint64("media_id", id).Str("key", item.Filename).Msg("failed to delete media object")
	}

	return nil
}
