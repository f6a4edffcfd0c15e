package security

import "golang.org/x/crypto/bcrypt"

// bcrypt ignores everything beyond 72 bytes; newer implementations error
// instead. Truncate so very long passwords don't break registration/login.
const bcryptMaxLength = 72

func truncateForBcrypt(plain string) []byte {
	b := []byte(plain)

	if len(b) > bcryptMaxLength {
		b = b[:bcryptMaxLength]
	}

	return b
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncateForBcrypt(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncateForBcrypt(plain))
}
