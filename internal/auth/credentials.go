package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/validation"
)

const (
	whereID       = "id = ?"
	whereUsername = "username = ?"

	// dummyPassword is hashed once and verified against for unknown usernames.
	dummyPassword = "propertylens-timing-equalizer"
)

// NewUser is the input of CreateUser.
type NewUser struct {
	Username string      `json:"username" validate:"required,min=3,max=100"`
	Email    string      `json:"email" validate:"omitempty,email,max=255"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     models.Role `json:"role" validate:"required,oneof=admin editor viewer"`
	// IsActive defaults to true when nil.
	IsActive *bool `json:"isActive"`
}

// UserUpdate is the input of UpdateUser. Nil fields are left unchanged.
type UserUpdate struct {
	Email    *string      `json:"email" validate:"omitempty,email,max=255"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=admin editor viewer"`
	IsActive *bool        `json:"isActive"`
	Password *string      `json:"password" validate:"omitempty,min=8,max=72"`
}

// CredentialStore looks up staff accounts and verifies their passwords.
type CredentialStore struct {
	db     *gorm.DB
	hasher *Hasher

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialStore creates a credential store. A nil hasher means bcrypt with the default cost.
func NewCredentialStore(db *gorm.DB, hasher *Hasher) *CredentialStore {
	if hasher == nil {
		hasher = NewHasher(AlgorithmBcrypt, DefaultBcryptCost)
	}

	return &CredentialStore{
		db:     db,
		hasher: hasher,
	}
}

// Hasher returns the password hasher of the store.
func (s *CredentialStore) Hasher() *Hasher {
	return s.hasher
}

// FindUserByUsername retrieves a user by username.
func (s *CredentialStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).Where(whereUsername, strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperr.Storage("query user", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *CredentialStore) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperr.Storage("query user", err)
	}

	return &user, nil
}

// Authenticate verifies username and password.
//
// An unknown username and a wrong password both return ErrInvalidCredentials, and
// both run one hash verification. ErrUserAccountDisabled is only reported after the
// password was verified.
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.FindUserByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		_, _ = s.hasher.Verify(password, s.dummy())

		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	match, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to verify password")

		return nil, ErrInvalidCredentials
	}

	if !match {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserAccountDisabled
	}

	return user, nil
}

// dummy returns a hash of the configured algorithm used to equalize the unknown user path.
func (s *CredentialStore) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			log.Error().Err(err).Msg("failed to create dummy password hash")
		}

		s.dummyHash = hash
	})

	return s.dummyHash
}

// CreateUser creates a new user. A taken username is an *apperr.ConflictError.
func (s *CredentialStore) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.FindUserByUsername(ctx, in.Username)
	if err == nil {
		return nil, &apperr.ConflictError{Field: "username", Value: in.Username}
	}

	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashedPassword,
		Role:     in.Role,
		IsActive: in.IsActive == nil || *in.IsActive,
	}

	if err = s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperr.ConflictError{Field: "username", Value: in.Username}
		}

		return nil, apperr.Storage("create user", err)
	}

	return &user, nil
}

// EnsureUser creates the user unless the username already exists.
// It reports whether a user was created; an existing account is left unchanged.
func (s *CredentialStore) EnsureUser(ctx context.Context, in NewUser) (*models.User, bool, error) {
	existing, err := s.FindUserByUsername(ctx, in.Username)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, false, err
	}

	return user, true, nil
}

// UpdateUser changes the email, role, active flag or password of a user.
func (s *CredentialStore) UpdateUser(ctx context.Context, userID uint64, in UserUpdate) (*models.User, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Email != nil {
		updates["email"] = strings.TrimSpace(*in.Email)
	}

	if in.Role != nil {
		updates["role"] = *in.Role
	}

	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if in.Password != nil {
		hashedPassword, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}

		updates["password"] = hashedPassword
	}

	if len(updates) == 0 {
		return s.GetUserByID(ctx, userID)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where(whereID, userID).Updates(updates)
	if result.Error != nil {
		return nil, apperr.Storage("update user", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetUserByID(ctx, userID)
}

// ChangePassword changes a user's password after verifying the old one.
func (s *CredentialStore) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := s.hasher.Verify(oldPassword, user.Password)
	if err != nil || !match {
		return ErrInvalidOldPassword
	}

	_, err = s.UpdateUser(ctx, userID, UserUpdate{Password: &newPassword})

	return err
}

// ListUsers lists all users ordered by username.
func (s *CredentialStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}

	if err := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, apperr.Storage("list users", err)
	}

	return users, nil
}

