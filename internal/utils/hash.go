package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of the provided password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent.
// An empty hash never matches.
func CheckPassword(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// NormalizePasswordHash keeps a value that already is a bcrypt hash and
// hashes anything else. The empty string stays empty: such accounts sign in
// through a third party and cannot log in with a password.
func NormalizePasswordHash(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if _, err := bcrypt.Cost([]byte(value)); err == nil {
		return value, nil
	}
	return HashPassword(value)
}
