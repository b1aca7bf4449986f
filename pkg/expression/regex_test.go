package expression

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	ok, err := MatchPattern("Boost Libraries", `\w+\s\w+`)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = MatchPattern("Boost Libraries!", `\w+\s\w+`)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = MatchPattern("x", "(")
	require.Error(t, err)
}

func TestConvertRegex(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"[0-9] [^0-9] [a-zA-Z0-9_] [^a-zA-Z0-9_]",
		ConvertRegex(`\d \D \w \W`))
	require.Equal(t, "/root/mesh", ConvertRegex("/root/mesh"))
}

func TestConvertRegex_SameMatches(t *testing.T) {
	t.Parallel()

	patterns := []string{`/root/mesh\d+`, `/\w+/\D`, `/a\W\w`}
	inputs := []string{"/root/mesh12", "/root/mesh", "/geo/x", "/geo/1", "/a-b", "/a_b", "/a b"}

	for _, pattern := range patterns {
		for _, in := range inputs {
			direct, err := MatchPattern(in, pattern)
			require.NoError(t, err)
			converted, err := MatchPattern(in, ConvertRegex(pattern))
			require.NoError(t, err)
			require.Equal(t, direct, converted, "pattern %q input %q", pattern, in)
		}
	}
}

func TestMangle(t *testing.T) {
	t.Parallel()

	require.Equal(t, `\Hello \World`, Mangle("/Hello /World"))
	require.Equal(t, "/Hello /World", Demangle(`\Hello \World`))

	for _, s := range []string{"", "/", "/a/b/c", "/root/.*", "no slashes"} {
		require.Equal(t, s, Demangle(Mangle(s)))
	}
}
