package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Scheme selects how a credential digest is stored.
type Scheme string

const (
	// SchemePlain stores the digest as-is. Databases written by earlier
	// versions of the program use this format.
	SchemePlain Scheme = "plain"
	// SchemeBcrypt stores bcrypt(digest).
	SchemeBcrypt Scheme = "bcrypt"
)

// ParseScheme validates a scheme name. An empty name means SchemePlain.
func ParseScheme(name string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(name))) {
	case "", SchemePlain:
		return SchemePlain, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	}
	return "", fmt.Errorf("unknown hash scheme %q", name)
}

// Digest reduces a plaintext password to its hex-encoded SHA-256 digest.
// The digest is unsalted, so equal passwords produce equal digests.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashPassword turns a digest into the value stored in Users.pass_hash.
func HashPassword(digest string, scheme Scheme) (string, error) {
	if scheme != SchemeBcrypt {
		return digest, nil
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(digest), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a digest with a stored value of either scheme.
func CheckPassword(digest, stored string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(digest)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}
