package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Media{}, &models.GalleryItem{}), "failed to migrate test database")

	return db
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func newTestService(t *testing.T, maxBytes int64) (*Service, *LocalStorage, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)

	storage, err := NewLocalStorage(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	svc, err := NewService(db, storage, maxBytes)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }

	return svc, storage, db
}

func TestUploadPNG(t *testing.T) {
	svc, storage, _ := newTestService(t, 0)
	uploader := uint64(3)
	alt := "<b>Front</b> porch"

	item, err := svc.Upload(context.Background(), Upload{
		Filename:   "../../etc/porch.png",
		Data:       pngBytes(t, 64, 48),
		AltText:    &alt,
		UploadedBy: &uploader,
	})
	require.NoError(t, err)

	assert.NotZero(t, item.ID)
	assert.Equal(t, models.StorageLocal, item.StorageProvider)
	assert.Equal(t, "image/png", item.MimeType)
	assert.Equal(t, "porch.png", item.OriginalFilename)
	assert.True(t, strings.HasPrefix(item.Filename, "2026/03/"), item.Filename)
	assert.True(t, strings.HasSuffix(item.Filename, ".png"), item.Filename)
	assert.Equal(t, "/uploads/"+item.Filename, item.URL)
	assert.Equal(t, 64, *item.Width)
	assert.Equal(t, 48, *item.Height)
	assert.Equal(t, "Front porch", *item.AltText)
	assert.Equal(t, uploader, *item.UploadedBy)

	data, err := os.ReadFile(filepath.Join(storage.Dir, filepath.FromSlash(item.Filename)))
	require.NoError(t, err)
	assert.Equal(t, item.SizeBytes, int64(len(data)))

	got, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.URL, got.URL)
}

func TestUploadSVG(t *testing.T) {
	svc, _, _ := newTestService(t, 0)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)

	item, err := svc.Upload(context.Background(), Upload{Filename: "logo.svg", Data: svg})
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", item.MimeType)
	assert.Nil(t, item.Width)
	assert.True(t, strings.HasSuffix(item.Filename, ".svg"))
}

func TestUploadRejects(t *testing.T) {
	svc, storage, _ := newTestService(t, 1024)

	testCases := []struct {
		name string
		data []byte
		tag  string
	}{
		{name: "empty", data: nil, tag: "required"},
		{name: "text file", data: []byte("just some plain text, not an image"), tag: "image"},
		{name: "pdf", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), tag: "image"},
		{name: "too large", data: bytes.Repeat([]byte{0}, 2048), tag: "max"},
		{name: "truncated png", data: pngBytes(t, 8, 8)[:20], tag: "image"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), Upload{Filename: "x.png", Data: tc.data})
			assert.ErrorIs(t, err, apperr.ErrValidation)

			var verr *apperr.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "file", verr.Fields[0].Field)
			assert.Equal(t, tc.tag, verr.Fields[0].Tag)
		})
	}

	entries, err := os.ReadDir(storage.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is stored for rejected uploads")
}

func TestDeleteMedia(t *testing.T) {
	svc, storage, _ := newTestService(t, 0)
	ctx := context.Background()

	item, err := svc.Upload(ctx, Upload{Filename: "a.png", Data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), apperr.ErrNotFound)

	_, err = os.Stat(filepath.Join(storage.Dir, filepath.FromSlash(item.Filename)))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestResolver(t *testing.T) {
	svc, _, db := newTestService(t, 0)
	ctx := context.Background()

	item, err := svc.Upload(ctx, Upload{Filename: "a.png", Data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	r := NewResolver(db)

	got, err := r.Resolve(ctx, &item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, item.ID, got.ID)

	got, err = r.Resolve(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	dangling := item.ID + 50
	got, err = r.Resolve(ctx, &dangling)
	require.NoError(t, err)
	assert.Nil(t, got)

	withMedia := &models.GalleryItem{Title: "a", MediaID: &item.ID}
	withDangling := &models.GalleryItem{Title: "b", MediaID: &dangling}
	without := &models.GalleryItem{Title: "c", Media: &models.Media{ID: 1}}

	require.NoError(t, r.Attach(ctx, withMedia, withDangling, without))
	require.NotNil(t, withMedia.Media)
	assert.Equal(t, item.ID, withMedia.Media.ID)
	assert.Nil(t, withDangling.Media)
	assert.Nil(t, without.Media)
}

func TestDeletedMediaDangles(t *testing.T) {
	svc, _, db := newTestService(t, 0)
	ctx := context.Background()

	item, err := svc.Upload(ctx, Upload{Filename: "a.png", Data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	gallery := &models.GalleryItem{Title: "Porch", Slug: "porch", MediaID: &item.ID}
	require.NoError(t, db.Create(gallery).Error)

	require.NoError(t, svc.Delete(ctx, item.ID))

	var reloaded models.GalleryItem
	require.NoError(t, db.First(&reloaded, gallery.ID).Error)
	require.NotNil(t, reloaded.MediaID, "the reference is kept")

	require.NoError(t, NewResolver(db).Attach(ctx, &reloaded))
	assert.Nil(t, reloaded.Media)
}

func TestLocalStorageKeys(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = storage.Put(context.Background(), "../escape.png", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrKeyOutsideRoot)

	assert.NoError(t, storage.Delete(context.Background(), "2026/01/missing.png"))
}
