// Package screenstatus represents the screen status in the system.
package screenstatus

import "fmt"

// The set of statuses a screen can be in.
var (
	Draft     = newStatus("DRAFT")
	Published = newStatus("PUBLISHED")
	Archived  = newStatus("ARCHIVED")
)

// =============================================================================

// Set of known statuses.
var statuses = make(map[string]ScreenStatus)

// ScreenStatus represents the publication state of a screen.
type ScreenStatus struct {
	value string
}

func newStatus(value string) ScreenStatus {
	ss := ScreenStatus{value}
	statuses[value] = ss
	return ss
}

// String returns the name of the status.
func (ss ScreenStatus) String() string {
	return ss.value
}

// Equal provides support for the go-cmp package and testing.
func (ss ScreenStatus) Equal(ss2 ScreenStatus) bool {
	return ss.value == ss2.value
}

// MarshalText provides support for logging and any marshal needs.
func (ss ScreenStatus) MarshalText() ([]byte, error) {
	return []byte(ss.value), nil
}

// =============================================================================

// Parse parses the string value and returns a status if one exists.
func Parse(value string) (ScreenStatus, error) {
	ss, exists := statuses[value]
	if !exists {
		return ScreenStatus{}, fmt.Errorf("invalid screen status %q", value)
	}

	return ss, nil
}

// MustParse parses the string value and returns a status if one exists. If
// an error occurs the function panics.
func MustParse(value string) ScreenStatus {
	ss, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return ss
}
