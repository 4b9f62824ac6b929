// Package resource provides a generic gorm repository for the site content collections.
//
// Every collection (gallery, services, pricing, FAQs, blog, testimonials) shares the same
// operations; a Config describes what differs between them.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/validation"
)

const (
	// DefaultOrder is the listing order of collections without their own.
	DefaultOrder = "display_order ASC, created_at DESC, id DESC"

	columnUpdatedAt = "updated_at"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Scope narrows a query.
type Scope func(*gorm.DB) *gorm.DB

// Config describes one collection.
type Config struct {
	// Name is used in error messages ("faq not found").
	Name string
	// SlugColumn is the unique slug column, empty for collections without slugs.
	SlugColumn string
	// PublicScope selects the rows visible to anonymous visitors.
	PublicScope Scope
	// Order is the admin listing order, DefaultOrder if empty.
	Order string
	// PublicOrder is the public listing order, Order if empty.
	PublicOrder string
	// Preload loads associations on every read.
	Preload Scope
}

type normalizer interface {
	Normalize()
}

// Repository provides CRUD operations for the model T.
type Repository[T any] struct {
	db     *gorm.DB
	cfg    Config
	schema *schema.Schema

	// fields by JSON name
	fields   map[string]*schema.Field
	writable map[string]bool
}

// New creates a repository for T. The model is parsed once to learn its columns.
func New[T any](db *gorm.DB, cfg Config) (*Repository[T], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if cfg.Order == "" {
		cfg.Order = DefaultOrder
	}

	if cfg.PublicOrder == "" {
		cfg.PublicOrder = cfg.Order
	}

	if cfg.PublicScope == nil {
		cfg.PublicScope = func(tx *gorm.DB) *gorm.DB { return tx }
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("parse %s model: %w", cfg.Name, err)
	}

	r := &Repository[T]{
		db:       db,
		cfg:      cfg,
		schema:   stmt.Schema,
		fields:   map[string]*schema.Field{},
		writable: map[string]bool{},
	}

	for _, f := range stmt.Schema.Fields {
		name := strings.Split(f.StructField.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		r.fields[name] = f
		r.writable[name] = f.DBName != "" && !f.PrimaryKey && f.Updatable &&
			f.AutoCreateTime == 0 && f.AutoUpdateTime == 0
	}

	return r, nil
}

// Name returns the collection name.
func (r *Repository[T]) Name() string {
	return r.cfg.Name
}

func (r *Repository[T]) query(ctx context.Context) *gorm.DB {
	tx := r.db.WithContext(ctx)
	if r.cfg.Preload != nil {
		tx = r.cfg.Preload(tx)
	}

	return tx
}

func (r *Repository[T]) notFound() error {
	return apperr.NotFound(r.cfg.Name)
}

// Get returns the record with id.
func (r *Repository[T]) Get(ctx context.Context, id uint64) (*T, error) {
	item := new(T)

	err := r.query(ctx).First(item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.notFound()
	}

	if err != nil {
		return nil, apperr.Storage("get "+r.cfg.Name, err)
	}

	return item, nil
}

// GetBySlug returns the record with slug, published or not.
func (r *Repository[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	return r.bySlug(ctx, r.query(ctx), slug)
}

// FindPublicBySlug returns the record with slug if it is publicly visible.
func (r *Repository[T]) FindPublicBySlug(ctx context.Context, slug string) (*T, error) {
	return r.bySlug(ctx, r.cfg.PublicScope(r.query(ctx)), slug)
}

func (r *Repository[T]) bySlug(_ context.Context, tx *gorm.DB, slug string) (*T, error) {
	if r.cfg.SlugColumn == "" || slug == "" {
		return nil, r.notFound()
	}

	item := new(T)

	err := tx.Where(r.cfg.SlugColumn+" = ?", slug).First(item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.notFound()
	}

	if err != nil {
		return nil, apperr.Storage("get "+r.cfg.Name, err)
	}

	return item, nil
}

// ListAll returns every record, including unpublished ones, in admin order.
func (r *Repository[T]) ListAll(ctx context.Context) ([]T, error) {
	items := []T{}

	if err := r.query(ctx).Order(r.cfg.Order).Find(&items).Error; err != nil {
		return nil, apperr.Storage("list "+r.cfg.Name, err)
	}

	return items, nil
}

// ListPublic returns the publicly visible records in public order.
func (r *Repository[T]) ListPublic(ctx context.Context) ([]T, error) {
	items := []T{}

	if err := r.cfg.PublicScope(r.query(ctx)).Order(r.cfg.PublicOrder).Find(&items).Error; err != nil {
		return nil, apperr.Storage("list public "+r.cfg.Name, err)
	}

	return items, nil
}

// Create normalizes, validates and inserts item, then returns the stored record.
// The primary key and timestamps of item are ignored, and nested has-many rows are
// always inserted as new rows of item.
func (r *Repository[T]) Create(ctx context.Context, item *T) (*T, error) {
	rv := reflect.ValueOf(item).Elem()
	for _, f := range r.fields {
		if f.PrimaryKey || f.AutoCreateTime > 0 || f.AutoUpdateTime > 0 {
			rv.FieldByIndex(f.StructField.Index).SetZero()
		}
	}

	r.detachChildren(ctx, item)
	r.normalize(item)

	if err := validation.Struct(item); err != nil {
		return nil, err
	}

	if slug := r.slugOf(ctx, item); slug != "" {
		if err := r.checkSlug(ctx, slug, 0); err != nil {
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, r.writeError("create", item, err)
	}

	return r.Get(ctx, r.idOf(ctx, item))
}

// detachChildren zeroes the primary and foreign keys of nested has-many rows.
// gorm upserts children by primary key, so a kept id would move an existing row
// of another parent onto item.
func (r *Repository[T]) detachChildren(ctx context.Context, item *T) {
	rv := reflect.ValueOf(item).Elem()

	for _, rel := range r.schema.Relationships.HasMany {
		children := reflect.Indirect(rel.Field.ReflectValueOf(ctx, rv))
		if children.Kind() != reflect.Slice {
			continue
		}

		for i := range children.Len() {
			child := reflect.Indirect(children.Index(i))

			for _, pk := range rel.FieldSchema.PrimaryFields {
				pk.ReflectValueOf(ctx, child).SetZero()
			}

			for _, ref := range rel.References {
				if ref.ForeignKey != nil && ref.ForeignKey.Schema == rel.FieldSchema {
					ref.ForeignKey.ReflectValueOf(ctx, child).SetZero()
				}
			}
		}
	}
}

// Update applies patch to the record with id and returns the stored record.
//
// Patch keys are JSON field names. Unknown and read-only keys are rejected before
// anything is read. Only columns whose value changed are written, plus updated_at.
func (r *Repository[T]) Update(ctx context.Context, id uint64, patch map[string]any) (*T, error) {
	if err := r.checkPatch(patch); err != nil {
		return nil, err
	}

	current := new(T)

	err := r.db.WithContext(ctx).First(current, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, r.notFound()
	}

	if err != nil {
		return nil, apperr.Storage("get "+r.cfg.Name, err)
	}

	if len(patch) == 0 {
		return r.Get(ctx, id)
	}

	merged, err := r.merge(current, patch)
	if err != nil {
		return nil, err
	}

	r.normalize(merged)

	if err = validation.Struct(merged); err != nil {
		return nil, err
	}

	columns := r.changedColumns(ctx, current, merged)

	if r.cfg.SlugColumn != "" && contains(columns, r.cfg.SlugColumn) {
		if err = r.checkSlug(ctx, r.slugOf(ctx, merged), id); err != nil {
			return nil, err
		}
	}

	result := r.db.WithContext(ctx).Model(merged).
		Select(append(columns, columnUpdatedAt)).
		Omit(clause.Associations).
		Updates(merged)
	if result.Error != nil {
		return nil, r.writeError("update", merged, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, r.notFound()
	}

	return r.Get(ctx, id)
}

// Delete removes the record with id. A missing id is ErrNotFound.
func (r *Repository[T]) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return apperr.Storage("delete "+r.cfg.Name, result.Error)
	}

	if result.RowsAffected == 0 {
		return r.notFound()
	}

	return nil
}

// checkPatch rejects keys that don't name a writable column.
func (r *Repository[T]) checkPatch(patch map[string]any) error {
	verr := &apperr.ValidationError{}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		f, known := r.fields[key]

		switch {
		case !known:
			verr.Fields = append(verr.Fields, apperr.FieldError{Field: key, Tag: "unknown", Message: "is not a known field"})
		case !r.writable[key]:
			verr.Fields = append(verr.Fields, apperr.FieldError{Field: key, Tag: "readonly", Message: "cannot be changed"})
		case patch[key] == nil && f.FieldType.Kind() != reflect.Ptr:
			verr.Fields = append(verr.Fields, apperr.FieldError{Field: key, Tag: "required", Message: "must not be null"})
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// merge returns a deep copy of current with patch applied.
func (r *Repository[T]) merge(current *T, patch map[string]any) (*T, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}

	merged := new(T)
	if err = json.Unmarshal(base, merged); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, apperr.Invalid("", "json", "patch is not valid JSON")
	}

	if err = json.Unmarshal(raw, merged); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperr.Invalid(typeErr.Field, "type", "must be of type "+typeErr.Type.String())
		}

		return nil, apperr.Invalid("", "json", err.Error())
	}

	return merged, nil
}

// changedColumns lists the writable columns that differ between a and b.
func (r *Repository[T]) changedColumns(ctx context.Context, a, b *T) []string {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)

	columns := []string{}

	for _, f := range r.schema.Fields {
		name := strings.Split(f.StructField.Tag.Get("json"), ",")[0]
		if !r.writable[name] {
			continue
		}

		x, _ := f.ValueOf(ctx, av)
		y, _ := f.ValueOf(ctx, bv)

		if !sameValue(x, y) {
			columns = append(columns, f.DBName)
		}
	}

	return columns
}

func (r *Repository[T]) checkSlug(ctx context.Context, slug string, exceptID uint64) error {
	var count int64

	tx := r.db.WithContext(ctx).Model(new(T)).Where(r.cfg.SlugColumn+" = ?", slug)
	if exceptID != 0 {
		tx = tx.Where("id <> ?", exceptID)
	}

	if err := tx.Count(&count).Error; err != nil {
		return apperr.Storage("check "+r.cfg.Name+" slug", err)
	}

	if count > 0 {
		return &apperr.ConflictError{Field: "slug", Value: slug}
	}

	return nil
}

// writeError maps a failed write. A unique violation that slipped past checkSlug is a conflict.
func (r *Repository[T]) writeError(op string, item *T, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperr.ConflictError{Field: "slug", Value: r.slugOf(context.Background(), item)}
	}

	return apperr.Storage(op+" "+r.cfg.Name, err)
}

func (r *Repository[T]) normalize(item *T) {
	if n, ok := any(item).(normalizer); ok {
		n.Normalize()
	}
}

func (r *Repository[T]) slugOf(ctx context.Context, item *T) string {
	if r.cfg.SlugColumn == "" {
		return ""
	}

	f := r.schema.LookUpField(r.cfg.SlugColumn)
	if f == nil {
		return ""
	}

	v, _ := f.ValueOf(ctx, reflect.ValueOf(item))
	s, _ := v.(string)

	return s
}

func (r *Repository[T]) idOf(ctx context.Context, item *T) uint64 {
	pk := r.schema.PrioritizedPrimaryField
	if pk == nil {
		return 0
	}

	v, _ := pk.ValueOf(ctx, reflect.ValueOf(item))
	id, _ := v.(uint64)

	return id
}

func sameValue(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *time.Time:
		y, ok := b.(*time.Time)
		if !ok {
			return false
		}

		if x == nil || y == nil {
			return x == y
		}

		return x.Equal(*y)
	default:
		return reflect.DeepEqual(a, b)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
