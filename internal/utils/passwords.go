package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

// bcryptInput digests passwords longer than bcryptMaxBytes so that any
// length fits. Shorter passwords are used as is.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword hashes a password using bcrypt for storage in the database
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsPasswordHash reports whether a stored password is a bcrypt hash
func IsPasswordHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// VerifyPassword checks a plain password against the stored value.
// Rows created by the legacy deployment still hold plaintext, those are
// compared exactly (case-sensitive, constant time).
func VerifyPassword(stored, plain string) bool {
	if IsPasswordHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(plain)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
