package mid_test

import (
	"testing"

	"github.com/rhettharrison/platform-api/app/sdk/mid"
	"github.com/stretchr/testify/require"
)

// The wiring registry is package global, so this test depends on the fact
// that no other test in this package constructs the correlate stage.
func Test_ValidateWiring(t *testing.T) {
	require.Error(t, mid.ValidateWiring())

	mid.Correlate()
	newResolveMid(t)

	require.NoError(t, mid.ValidateWiring())
}
