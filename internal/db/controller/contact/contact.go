// Package contact provides the operations on contact form submissions.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/util"
	"github.com/PropertyLens/PropertyLens/internal/validation"
)

const resourceName = "contact submission"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Submission is the public input of Submit.
type Submission struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone"`
	ServiceInterest *string `json:"serviceInterest"`
	Message         string  `json:"message"`
}

// Patch is the input of Update. Nil fields are left unchanged.
type Patch struct {
	Status        *models.ContactStatus `json:"status"`
	InternalNotes *string               `json:"internalNotes"`
}

// Submit stores a new submission with status new.
func Submit(ctx context.Context, db *gorm.DB, in Submission) (*models.ContactSubmission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	submission := &models.ContactSubmission{
		Name:            util.StripTags(in.Name),
		Email:           strings.TrimSpace(in.Email),
		Phone:           util.StripTagsPtr(in.Phone),
		ServiceInterest: util.StripTagsPtr(in.ServiceInterest),
		Message:         util.StripTags(in.Message),
		Status:          models.ContactNew,
	}

	if err := validation.Struct(submission); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, apperr.Storage("create "+resourceName, err)
	}

	return submission, nil
}

// Get retrieves a submission by its ID.
func Get(ctx context.Context, db *gorm.DB, id uint64) (*models.ContactSubmission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var submission models.ContactSubmission

	err := db.WithContext(ctx).First(&submission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(resourceName)
	}

	if err != nil {
		return nil, apperr.Storage("get "+resourceName, err)
	}

	return &submission, nil
}

// List returns every submission, newest first.
func List(ctx context.Context, db *gorm.DB) ([]models.ContactSubmission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	submissions := []models.ContactSubmission{}

	if err := db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&submissions).Error; err != nil {
		return nil, apperr.Storage("list "+resourceName, err)
	}

	return submissions, nil
}

// Update changes the status and internal notes of a submission.
// Any status may follow any other; setting responded stamps respondedAt once.
func Update(ctx context.Context, db *gorm.DB, id uint64, in Patch) (*models.ContactSubmission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Invalid("status", "oneof", "must be one of: new in_progress responded closed")
	}

	current, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Status != nil {
		updates["status"] = string(*in.Status)

		if *in.Status == models.ContactResponded && current.RespondedAt == nil {
			updates["responded_at"] = time.Now()
		}
	}

	if in.InternalNotes != nil {
		updates["internal_notes"] = util.StripTags(*in.InternalNotes)
	}

	if len(updates) == 0 {
		return current, nil
	}

	result := db.WithContext(ctx).Model(&models.ContactSubmission{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, apperr.Storage("update "+resourceName, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, apperr.NotFound(resourceName)
	}

	return Get(ctx, db, id)
}

// UpdateStatus sets the status of a submission.
func UpdateStatus(ctx context.Context, db *gorm.DB, id uint64, status models.ContactStatus) (*models.ContactSubmission, error) {
	return Update(ctx, db, id, Patch{Status: &status})
}

// Delete deletes a submission by ID.
func Delete(ctx context.Context, db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.WithContext(ctx).Delete(&models.ContactSubmission{}, id)
	if result.Error != nil {
		return apperr.Storage("delete "+resourceName, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound(resourceName)
	}

	return nil
}
