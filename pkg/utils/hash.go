package utils

import "golang.org/x/crypto/bcrypt"

// HashCost is lowered in tests to keep them fast.
var HashCost = bcrypt.DefaultCost

// HashCode returns the bcrypt hash of a confirmation code.
func HashCode(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), HashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckCodeHash reports whether code matches the stored hash.
func CheckCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
