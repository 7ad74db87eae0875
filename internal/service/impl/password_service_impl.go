package impl

import (
	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceImpl struct {
	cost int
}

// NewPasswordServiceBcrypt hashes with bcrypt at the given cost. Each Hash
// call salts freshly, so hashing the same password twice never repeats.
func NewPasswordServiceBcrypt(cost int) *PasswordServiceImpl {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify delegates the comparison to bcrypt, which is constant-time over the
// derived key. A malformed stored hash reads as a failed verification rather
// than an error.
func (p *PasswordServiceImpl) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
