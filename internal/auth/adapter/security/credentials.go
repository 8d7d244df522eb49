package security

import (
	"orgmanager/internal/auth/domain/repository"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCredentialService hashes and verifies admin passwords with bcrypt.
type BcryptCredentialService struct {
	cost int
}

// NewBcryptCredentialService creates a credential service. A non-positive cost
// selects bcrypt.DefaultCost.
func NewBcryptCredentialService(cost int) *BcryptCredentialService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCredentialService{cost: cost}
}

// Hash hashes a plaintext password.
func (s *BcryptCredentialService) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compares a plaintext password against its hash.
func (s *BcryptCredentialService) Verify(hash, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}

// Ensure BcryptCredentialService implements CredentialService
var _ repository.CredentialService = (*BcryptCredentialService)(nil)
