package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const verifyCodeSpace = 1_000_000

// KeyVerifyCode is the Redis key of the pending sign-up code of email.
func KeyVerifyCode(email string) string {
	return "signup:verify:" + email
}

// GenVerifyCode returns a uniformly random zero-padded 6-digit code.
func GenVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(verifyCodeSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
