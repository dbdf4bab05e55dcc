// Package screentype represents the screen type in the system.
package screentype

import "fmt"

// The set of screen types that can be used.
var (
	Markdown = newType("MARKDOWN")
	HTML     = newType("HTML")
	Redirect = newType("REDIRECT")
)

// =============================================================================

// Set of known screen types.
var types = make(map[string]ScreenType)

// ScreenType represents the kind of content a screen serves.
type ScreenType struct {
	value string
}

func newType(value string) ScreenType {
	st := ScreenType{value}
	types[value] = st
	return st
}

// String returns the name of the screen type.
func (st ScreenType) String() string {
	return st.value
}

// Equal provides support for the go-cmp package and testing.
func (st ScreenType) Equal(st2 ScreenType) bool {
	return st.value == st2.value
}

// MarshalText provides support for logging and any marshal needs.
func (st ScreenType) MarshalText() ([]byte, error) {
	return []byte(st.value), nil
}

// =============================================================================

// Parse parses the string value and returns a screen type if one exists.
func Parse(value string) (ScreenType, error) {
	st, exists := types[value]
	if !exists {
		return ScreenType{}, fmt.Errorf("invalid screen type %q", value)
	}

	return st, nil
}

// MustParse parses the string value and returns a screen type if one
// exists. If an error occurs the function panics.
func MustParse(value string) ScreenType {
	st, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return st
}
