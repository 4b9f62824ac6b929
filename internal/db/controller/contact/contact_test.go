package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

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

	require.NoError(t, db.AutoMigrate(&models.ContactSubmission{}), "failed to migrate test database")

	return db
}

func validSubmission() Submission {
	return Submission{
		Name:    "Sam Carter",
		Email:   "sam@example.com",
		Message: "Can you shoot a 3 bedroom house next Tuesday?",
	}
}

func TestSubmit(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name        string
		dbParam     *gorm.DB
		input       func(s *Submission)
		wantErr     error
		wantInvalid []string
	}{
		{
			name:    "nil database",
			dbParam: nil,
			wantErr: ErrDBNil,
		},
		{
			name:    "valid submission",
			dbParam: db,
		},
		{
			name:        "missing fields",
			dbParam:     db,
			input:       func(s *Submission) { *s = Submission{} },
			wantErr:     apperr.ErrValidation,
			wantInvalid: []string{"name", "email", "message"},
		},
		{
			name:        "malformed email",
			dbParam:     db,
			input:       func(s *Submission) { s.Email = "not-an-email" },
			wantErr:     apperr.ErrValidation,
			wantInvalid: []string{"email"},
		},
		{
			name:        "message too long",
			dbParam:     db,
			input:       func(s *Submission) { s.Message = strings.Repeat("a", 5001) },
			wantErr:     apperr.ErrValidation,
			wantInvalid: []string{"message"},
		},
		{
			name:        "only markup",
			dbParam:     db,
			input:       func(s *Submission) { s.Name = "<b></b>" },
			wantErr:     apperr.ErrValidation,
			wantInvalid: []string{"name"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSubmission()
			if tc.input != nil {
				tc.input(&in)
			}

			got, err := Submit(context.Background(), tc.dbParam, in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				var verr *apperr.ValidationError
				if len(tc.wantInvalid) > 0 && assert.True(t, errors.As(err, &verr)) {
					fields := map[string]bool{}
					for _, f := range verr.Fields {
						fields[f.Field] = true
					}

					for _, f := range tc.wantInvalid {
						assert.True(t, fields[f], "expected %s to be invalid", f)
					}
				}

				return
			}

			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, models.ContactNew, got.Status)
			assert.Nil(t, got.RespondedAt)
		})
	}
}

func TestSubmitSanitizes(t *testing.T) {
	db := setupTestDB(t)

	in := validSubmission()
	in.Name = "<script>alert(1)</script>Sam"
	in.Message = "Hello <img src=x onerror=alert(1)>there & welcome"

	got, err := Submit(context.Background(), db, in)
	require.NoError(t, err)

	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, "Hello there & welcome", got.Message)
}

func TestContactScenario(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	first, err := Submit(ctx, db, validSubmission())
	require.NoError(t, err)

	second, err := Submit(ctx, db, validSubmission())
	require.NoError(t, err)

	list, err := List(ctx, db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	progress, err := UpdateStatus(ctx, db, first.ID, models.ContactInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.ContactInProgress, progress.Status)
	assert.Nil(t, progress.RespondedAt)

	notes := "Called back, waiting for dates"
	responded := models.ContactResponded
	updated, err := Update(ctx, db, first.ID, Patch{Status: &responded, InternalNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.ContactResponded, updated.Status)
	assert.Equal(t, notes, *updated.InternalNotes)
	require.NotNil(t, updated.RespondedAt)

	// any status may follow any other, the response time stays
	reopened, err := UpdateStatus(ctx, db, first.ID, models.ContactNew)
	require.NoError(t, err)
	assert.Equal(t, models.ContactNew, reopened.Status)

	again, err := UpdateStatus(ctx, db, first.ID, models.ContactResponded)
	require.NoError(t, err)
	assert.True(t, again.RespondedAt.Equal(*updated.RespondedAt))

	_, err = UpdateStatus(ctx, db, first.ID, "spam")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	unchanged, err := Update(ctx, db, first.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, models.ContactResponded, unchanged.Status)

	require.NoError(t, Delete(ctx, db, first.ID))

	_, err = Get(ctx, db, first.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMissingSubmission(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	_, err := Get(ctx, db, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = UpdateStatus(ctx, db, 1, models.ContactClosed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, Delete(ctx, db, 1), apperr.ErrNotFound)
	assert.ErrorIs(t, Delete(ctx, nil, 1), ErrDBNil)

	_, err = List(ctx, nil)
	assert.ErrorIs(t, err, ErrDBNil)
}
