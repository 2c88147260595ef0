package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"ridelink/config"
	domainerrors "ridelink/internal/domain/errors"
	"ridelink/internal/errors"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher()

	// Test valid strong password
	strongPassword := "StrongC0de!77"
	hash, err := hasher.Hash(strongPassword)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, strongPassword, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(strongPassword, hash))
}

func TestBcryptHasher_HashWithWeakPassword(t *testing.T) {
	hasher := NewBcryptHasher()

	// Test weak passwords that should fail validation
	weakPasswords := []string{
		"123",          // Too short
		"password",     // Forbidden word
		"SECRETC0DE!7", // No lowercase
		"secretc0de!7", // No uppercase
		"SecretCode!!", // No numbers
		"SecretC0de77", // No special characters
	}

	for _, weakPassword := range weakPasswords {
		_, err := hasher.Hash(weakPassword)
		assert.Error(t, err, "Expected error for weak password: %s", weakPassword)
	}
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasher()
	password := "StrongC0de!77"

	// Generate hash
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("WrongC0de!77", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher()

	// Test valid passwords
	validPasswords := []string{
		"StrongC0de!77",
		"MySecure@Phrase1",
		"Complex#Secret9",
		"Valid$Phrase2024",
	}

	for _, password := range validPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.NoError(t, err, "Expected no error for valid password: %s", password)
	}

	// Test invalid passwords with specific error cases
	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"123", "must be at least 8 characters long"},
		{"SECRETC0DE!7", "must contain at least one lowercase letter"},
		{"secretc0de!7", "must contain at least one uppercase letter"},
		{"SecretCode!!", "must contain at least one number"},
		{"SecretC0de77", "must contain at least one special character"},
		{"MyPassword123!", "contains forbidden words"},
		{"MyAdmin123!!", "contains forbidden words"},
	}

	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		assert.Error(t, err, "Expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr, "Error message should contain: %s", tc.expectedErr)
	}
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasherWithCost(customCost)

	password := "StrongC0de!77"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify the hash uses the correct cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_FromConfig(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 6},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:      4,
			RequireNumbers: true,
			MaxLength:      32,
		},
	}
	hasher := NewBcryptHasherFromConfig(cfg)

	// Relaxed policy: no case or special character requirements
	assert.NoError(t, hasher.ValidatePasswordStrength("code9999"))
	assert.Error(t, hasher.ValidatePasswordStrength("codewithoutnumbers"))

	hash, err := hasher.Hash("code9999")
	assert.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, 6, cost)
}

func TestBcryptHasher_PasswordStrengthHelpers(t *testing.T) {
	hasher := &bcryptHasher{}

	// Test hasUppercase
	assert.True(t, hasher.hasUppercase("Secret"))
	assert.False(t, hasher.hasUppercase("secret"))

	// Test hasLowercase
	assert.True(t, hasher.hasLowercase("Secret"))
	assert.False(t, hasher.hasLowercase("SECRET"))

	// Test hasNumbers
	assert.True(t, hasher.hasNumbers("Secret123"))
	assert.False(t, hasher.hasNumbers("Secret"))

	// Test hasSpecialChars
	assert.True(t, hasher.hasSpecialChars("Secret!"))
	assert.False(t, hasher.hasSpecialChars("Secret"))

	// Test containsForbiddenWords
	forbiddenWords := []string{"password", "admin"}
	assert.True(t, hasher.containsForbiddenWords("MyPassword123", forbiddenWords))
	assert.True(t, hasher.containsForbiddenWords("AdminUser", forbiddenWords))
	assert.False(t, hasher.containsForbiddenWords("SecureCode123", forbiddenWords))
}

func TestBcryptHasher_EdgeCases(t *testing.T) {
	hasher := NewBcryptHasher()

	// Test empty password
	err := hasher.ValidatePasswordStrength("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 8 characters long")

	// Test password exceeding the maximum length
	longPassword := "VeryLongSecret123!" + strings.Repeat("x", 1000)
	err = hasher.ValidatePasswordStrength(longPassword)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
	assert.Contains(t, err.Error(), "at most")

	// Test password with unicode characters
	unicodePassword := "Pässphräse123!"
	err = hasher.ValidatePasswordStrength(unicodePassword)
	assert.NoError(t, err) // Should be valid

	// Test password with only special characters
	specialOnlyPassword := "!@#$%^&*()"
	err = hasher.ValidatePasswordStrength(specialOnlyPassword)
	assert.Error(t, err) // Should fail because no letters or numbers
}
