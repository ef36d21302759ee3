package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// newDummyHash builds the hash compared against when no user matches. It must
// share the cost of real hashes, since bcrypt work is set by the stored cost.
func newDummyHash(cost int) []byte {
	hashed, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		hashed, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	}
	return hashed
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
