package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"AcmeFan", "acmefan"},
		{"@AcmeFan", "acmefan"},
		{"@acme_fan", "acmefan"},
		{"acme.fan", "acmefan"},
		{"https://twitter.com/AcmeFan", "acmefan"},
		{"http://twitter.com/acmefan", "acmefan"},
		{"twitter.com/acmefan", "acmefan"},
		{"acmefan@gmail.com", "acmefan"},
		{"  @AcmeFan  ", "acmefan"},
		{"https://twitter.com/@AcmeFan@gmail.com", "acmefan"},
		{"acme_fan99", "acmefan99"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NormalizeHandle(c.in), "input %q", c.in)
	}
}

func TestNormalizeHandleTruncates(t *testing.T) {
	long := strings.Repeat("x", 150)
	require.Len(t, NormalizeHandle(long), 100)
}
