// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"ridelink/config"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/domain/service"
	"ridelink/internal/errors"
)

// defaultForbiddenWords are substrings rejected regardless of the configured policy.
var defaultForbiddenWords = []string{"password", "admin", "ridelink", "123456", "qwerty"}

// defaultStrength applies when no policy is configured.
var defaultStrength = config.PasswordStrengthConfig{
	MinLength:        8,
	RequireUppercase: true,
	RequireLowercase: true,
	RequireNumbers:   true,
	RequireSpecial:   true,
	MaxLength:        128,
}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher with default cost and policy.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher() service.PasswordHasher {
	return &bcryptHasher{cost: bcrypt.DefaultCost, strength: defaultStrength}
}

// NewBcryptHasherWithCost creates a hasher with a custom bcrypt cost factor.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{cost: cost, strength: defaultStrength}
}

// NewBcryptHasherFromConfig creates a hasher driven by application configuration.
func NewBcryptHasherFromConfig(cfg *config.Config) service.PasswordHasher {
	hasher := &bcryptHasher{cost: bcrypt.DefaultCost, strength: defaultStrength}
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		hasher.cost = cfg.Auth.BcryptCost
	}
	if cfg.PasswordStrength != nil {
		hasher.strength = *cfg.PasswordStrength
	}

	return hasher
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// The password must satisfy the strength policy before it is hashed.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength verifies the password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	minLength := h.strength.MinLength
	if minLength <= 0 {
		minLength = defaultStrength.MinLength
	}
	maxLength := h.strength.MaxLength
	if maxLength <= 0 {
		maxLength = defaultStrength.MaxLength
	}

	if len(password) < minLength {
		return errors.Wrapf(domainerrors.ErrPasswordStrength, "must be at least %d characters long", minLength)
	}
	if len(password) > maxLength {
		return errors.Wrapf(domainerrors.ErrPasswordStrength, "must be at most %d characters long", maxLength)
	}
	if h.strength.RequireLowercase && !h.hasLowercase(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "must contain at least one lowercase letter")
	}
	if h.strength.RequireUppercase && !h.hasUppercase(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "must contain at least one uppercase letter")
	}
	if h.strength.RequireNumbers && !h.hasNumbers(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "must contain at least one number")
	}
	if h.strength.RequireSpecial && !h.hasSpecialChars(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "must contain at least one special character")
	}
	if h.containsForbiddenWords(password, defaultForbiddenWords) {
		return errors.Wrap(domainerrors.ErrPasswordForbiddenWords, "contains forbidden words")
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}

	return false
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}

	return false
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}

	return false
}

func (h *bcryptHasher) containsForbiddenWords(password string, words []string) bool {
	lowered := strings.ToLower(password)
	for _, word := range words {
		if strings.Contains(lowered, word) {
			return true
		}
	}

	return false
}
