package repository

// CredentialService defines password hashing and verification.
type CredentialService interface {
	Hash(plaintext string) (string, error)
	// Verify returns an error when the plaintext does not match the hash.
	Verify(hash, plaintext string) error
}
