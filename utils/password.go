package utils

import (
	"github.com/matthewhartstonge/argon2"
	"github.com/pkg/errors"
)

func HashPassword(password string) (string, error) {
	argon := argon2.DefaultConfig()
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches the argon2 encoded hash.
// A malformed hash is an error, a mismatch is not.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, errors.Wrap(err, "verify password")
	}
	return ok, nil
}
