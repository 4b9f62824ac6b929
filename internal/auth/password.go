package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
)

// Password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	// DefaultBcryptCost is the bcrypt cost used when none is given.
	DefaultBcryptCost = 12

	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72

	argon2idPrefix = "$argon2id$"
)

// ErrUnknownHash is returned when a stored hash matches no supported algorithm.
var ErrUnknownHash = errors.New("unknown password hash format")

// Hasher hashes new passwords with the configured algorithm and verifies
// stored hashes of any supported algorithm, so switching algorithms keeps
// existing accounts working.
type Hasher struct {
	Algorithm  string
	BcryptCost int
}

// NewHasher returns a hasher for algorithm (bcrypt if empty) and bcrypt cost
// (DefaultBcryptCost if 0).
func NewHasher(algorithm string, bcryptCost int) *Hasher {
	if algorithm == "" {
		algorithm = AlgorithmBcrypt
	}

	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}

	return &Hasher{Algorithm: algorithm, BcryptCost: bcryptCost}
}

// Hash returns the encoded hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	switch h.Algorithm {
	case AlgorithmArgon2id:
		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		if err != nil {
			return "", fmt.Errorf("argon2id hash: %w", err)
		}

		return hash, nil
	case AlgorithmBcrypt:
		// the max=72 validation counts runes, bcrypt counts bytes
		if len(password) > MaxPasswordBytes {
			return "", apperr.Invalid("password", "max", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}

		return string(hash), nil
	default:
		return "", fmt.Errorf("%w: algorithm %q", ErrUnknownHash, h.Algorithm)
	}
}

// Verify reports whether password matches hash. The algorithm is taken from the hash itself.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, argon2idPrefix):
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		if err != nil {
			return false, fmt.Errorf("argon2id verify: %w", err)
		}

		return match, nil
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}

		if err != nil {
			return false, fmt.Errorf("bcrypt verify: %w", err)
		}

		return true, nil
	default:
		return false, ErrUnknownHash
	}
}
