// Package password represents a password in the system.
package password

import "fmt"

// Password represents a plaintext password being carried to the hasher. It
// never marshals its value.
type Password struct {
	value string
}

// String returns the value of the password.
func (p Password) String() string {
	return p.value
}

// Equal provides support for the go-cmp package and testing.
func (p Password) Equal(p2 Password) bool {
	return p.value == p2.value
}

// MarshalText keeps passwords out of logs and marshaled output.
func (p Password) MarshalText() ([]byte, error) {
	return []byte("*****"), nil
}

// =============================================================================

// Parse parses the string value and returns a password if the value
// complies with the rules for a password.
func Parse(value string) (Password, error) {
	if len(value) < 8 || len(value) > 72 {
		return Password{}, fmt.Errorf("password must be between 8 and 72 characters")
	}

	return Password{value}, nil
}

// MustParse parses the string value and returns a password if the value
// complies with the rules for a password. If an error occurs the function
// panics.
func MustParse(value string) Password {
	pass, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return pass
}
