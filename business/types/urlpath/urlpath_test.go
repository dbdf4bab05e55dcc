package urlpath_test

import (
	"testing"

	"github.com/rhettharrison/platform-api/business/types/urlpath"
	"github.com/stretchr/testify/require"
)

func Test_Normalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "/"},
		{"/", "/"},
		{"Blog/", "/blog"},
		{"/Blog", "/blog"},
		{"/a//b", "/a/b"},
		{"/a/./b/", "/a/b"},
		{"/a/../b", "/b"},
		{"/../../", "/"},
		{"..", "/"},
		{"\\a\\b", "/a/b"},
		{"  /a  ", "/a"},
		{"\tBlog/\t", "/blog"},
		{"/About-Us/Team", "/about-us/team"},
		{"a/b/c/../..", "/a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, urlpath.Normalize(tt.input))
		})
	}
}

func Test_Reserved(t *testing.T) {
	reserved := []string{
		"/admin",
		"/admin/",
		"/Admin/screens",
		"/_internal",
		"/_",
		"/a/../_x",
	}
	for _, p := range reserved {
		require.True(t, urlpath.Reserved(p), p)
	}

	open := []string{
		"/",
		"/blog",
		"/administrator",
		"/a/_x",
		"/about/admin-team",
	}
	for _, p := range open {
		require.False(t, urlpath.Reserved(p), p)
	}
}
