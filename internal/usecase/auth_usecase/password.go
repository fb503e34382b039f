package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares a plaintext password with a stored hash.
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type Clock interface {
	Now() time.Time
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
