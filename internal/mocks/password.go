package mocks

import "errors"

// MockPasswordVerifier implements password hashing and comparison for
// testing without the cost of real bcrypt.
type MockPasswordVerifier struct {
	// ShouldSucceed controls whether Compare reports a match.
	ShouldSucceed bool

	// HashErr is returned by Hash when set.
	HashErr error
}

// Compare reports a mismatch unless ShouldSucceed is set.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}

// Hash returns a deterministic fake hash.
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}
