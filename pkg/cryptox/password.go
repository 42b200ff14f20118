package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Configuration for scrypt hashing.
const (
	scryptN    = 32768 // CPU/memory cost
	scryptR    = 8     // Block size
	scryptP    = 1     // Parallelism
	keyLength  = 64    // Length of the derived key
	saltLength = 16    // Length of the salt
)

// HashPassword derives an scrypt key from the password with a fresh random
// salt and returns it encoded as "hex(salt):hex(key)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("scrypt derivation failed: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword compares a plaintext password against a stored
// "hex(salt):hex(key)" value. Malformed input reports false rather than an
// error so verification never acts as an oracle for what went wrong.
func VerifyPassword(password, stored string) bool {
	salt64, key64, ok := strings.Cut(stored, ":")
	if !ok || salt64 == "" || key64 == "" {
		return false
	}

	salt, err := hex.DecodeString(salt64)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(key64)
	if err != nil || len(expected) == 0 {
		return false
	}

	// Always derive the full key length. Deriving len(expected) bytes would
	// let a truncated stored key verify, since scrypt output is prefix-stable.
	computed, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// GeneratePassword returns a random 12-character alphanumeric password.
// Used to provision the bootstrap admin account when no password has been
// configured.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
