package model

// PasswordHasher hashes and compares account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	// RandomHash returns a hash no caller knows the password for.
	RandomHash() (string, error)
}
