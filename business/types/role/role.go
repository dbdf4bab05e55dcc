// Package role represents the role type in the system.
package role

import (
	"fmt"
	"strings"
)

// The set of roles that can be used.
var (
	Admin  = newRole("ADMIN")
	Editor = newRole("EDITOR")
)

// =============================================================================

// Set of known roles.
var roles = make(map[string]Role)

// Role represents a role in the system.
type Role struct {
	value string
}

func newRole(role string) Role {
	r := Role{role}
	roles[role] = r
	return r
}

// String returns the name of the role.
func (r Role) String() string {
	return r.value
}

// Equal provides support for the go-cmp package and testing.
func (r Role) Equal(r2 Role) bool {
	return r.value == r2.value
}

// MarshalText provides support for logging and any marshal needs.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.value), nil
}

// =============================================================================

// Parse parses the string value and returns a role if one exists.
func Parse(value string) (Role, error) {
	role, exists := roles[value]
	if !exists {
		return Role{}, fmt.Errorf("invalid role %q", value)
	}

	return role, nil
}

// MustParse parses the string value and returns a role if one exists. If
// an error occurs the function panics.
func MustParse(value string) Role {
	role, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return role
}

// ParseMany parses a slice of string values and returns the roles.
func ParseMany(values []string) ([]Role, error) {
	rls := make([]Role, len(values))
	for i, value := range values {
		r, err := Parse(value)
		if err != nil {
			return nil, err
		}
		rls[i] = r
	}

	return rls, nil
}

// ParseCSV parses a comma separated list of role names, ignoring empty
// entries and surrounding whitespace.
func ParseCSV(value string) ([]Role, error) {
	var rls []Role
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		r, err := Parse(part)
		if err != nil {
			return nil, err
		}
		rls = append(rls, r)
	}

	return rls, nil
}

// Names returns the string names for a set of roles.
func Names(rls []Role) []string {
	names := make([]string, len(rls))
	for i, r := range rls {
		names[i] = r.String()
	}

	return names
}
