package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// CredentialService hashes and verifies passwords. bcrypt salts per
// password; the cost never drops below 10.
type CredentialService struct {
	cost int
}

func NewCredentialService(cost int) *CredentialService {
	if cost < 10 {
		cost = 10
	}
	return &CredentialService{cost: cost}
}

func (s *CredentialService) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. A mismatch is
// (false, nil); a failure of the primitive itself (e.g. a corrupt hash)
// is an error, never a silent "no match".
func (s *CredentialService) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
