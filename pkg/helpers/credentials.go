package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is lowered in tests.
var BcryptCost = bcrypt.DefaultCost

// prehash maps any password to 44 bytes, under bcrypt's 72-byte input limit.
func prehash(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword hashes base64(SHA-256(plain)) with bcrypt, so passwords of any length are accepted.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword checks plain against a hash produced by HashPassword.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plain)) == nil
}

// SecretHash returns base64(HMAC-SHA256(key, parts...)). Parts are NUL separated.
func SecretHash(key string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(key))
	for i, p := range parts {
		if i > 0 {
			mac.Write([]byte{0})
		}
		mac.Write([]byte(p))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SecretHashEqual compares a candidate against a stored SecretHash in constant time.
func SecretHashEqual(stored, key string, parts ...string) bool {
	return hmac.Equal([]byte(stored), []byte(SecretHash(key, parts...)))
}
