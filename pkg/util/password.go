package util

import "golang.org/x/crypto/bcrypt"

// hashCost trades login latency for brute-force resistance. 12 keeps a
// single hash under roughly 300ms on current hardware.
const hashCost = 12

// HashPassword derives a bcrypt hash for storage. The plaintext is never
// persisted.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
