package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const documentYAML = `
expressions:
  - expression: /root
    group: base
    layers:
      defaultRenderLayer:
        shader: grey.message
  - expression: /root/geo/mesh\d+
    layers:
      defaultRenderLayer:
        shader: marble.out
        displacement: bumps
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
	return exitErr.Code
}

func TestResolve_Text(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.yaml", documentYAML)

	out, err := execute(t, "resolve", "-d", doc, "-t", "shader", "/root/geo/mesh7", "/root/cam", "/nowhere")
	require.NoError(t, err)
	require.Equal(t, "/root/geo/mesh7 shader=marble.out\n/root/cam shader=grey.message\n/nowhere shader=-\n", out)
}

func TestResolve_InputFileJSON(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.yaml", documentYAML)
	objects := writeFile(t, "objects.txt", "# scene\n/root/geo/mesh1\n")

	out, err := execute(t, "resolve", "-d", doc, "-i", objects, "-f", "json")
	require.NoError(t, err)
	require.Equal(t, "/root/geo/mesh1", gjson.Get(out, "results.0.object").String())
	require.Equal(t, "bumps", gjson.Get(out, "results.0.values.displacement").String())
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.yaml", documentYAML)

	_, err := execute(t, "resolve", "-d", doc)
	require.Equal(t, 2, exitCode(t, err))

	_, err = execute(t, "resolve", "-d", doc, "-f", "xml", "/root")
	require.Equal(t, 2, exitCode(t, err))

	_, err = execute(t, "resolve", "/root")
	require.ErrorContains(t, err, "document")

	_, err = execute(t, "--log-level", "loud", "resolve", "-d", doc, "/root")
	require.Equal(t, 2, exitCode(t, err))
}

func TestSets(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.yaml", `
expressions:
  - expression: /root/geo
    layers:
      defaultRenderLayer:
        shader: marble
  - expression: /root/geo/arm
    layers:
      defaultRenderLayer:
        displacement: scales
`)

	out, err := execute(t, "sets", "-d", doc)
	require.NoError(t, err)
	require.Equal(t, "marble scales\n", out)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.yaml", documentYAML)
	out, err := execute(t, "check", "-d", doc)
	require.NoError(t, err)
	require.Equal(t, "expressions: 2\nshader: 2\ndisplacement: 1\ngroup base: 1\n", out)

	bad := writeFile(t, "bad.yaml", documentYAML+`  - expression: /root/(geo
    layers:
      defaultRenderLayer:
        shader: broken
`)
	out, err = execute(t, "check", "-d", bad)
	require.Equal(t, 1, exitCode(t, err))
	require.ErrorContains(t, err, "/root/(geo")
	require.Contains(t, out, "expressions: 3\n")
}

func TestMatch(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "match", `/root/mesh\d+`, "/root/mesh1", "/root/mesh", "/root/mesh22/x")
	require.NoError(t, err)
	require.Equal(t, "/root/mesh1\n", out)

	out, err = execute(t, "match", "--convert", `/root/\w+`, "/root/geo_1")
	require.NoError(t, err)
	require.Equal(t, "/root/geo_1\n", out)

	_, err = execute(t, "match", "/root/.*", "/other")
	require.Equal(t, 1, exitCode(t, err))

	_, err = execute(t, "match", "(", "/other")
	require.Equal(t, 2, exitCode(t, err))
}

func TestMergeMangle(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "merge", "/root/mesh1", "/root/mesh2")
	require.NoError(t, err)
	require.Equal(t, "/root/mesh.*\n", out)

	out, err = execute(t, "mangle", "/Hello /World")
	require.NoError(t, err)
	require.Equal(t, "\\Hello \\World\n", out)

	out, err = execute(t, "demangle", `\Hello \World`)
	require.NoError(t, err)
	require.Equal(t, "/Hello /World\n", out)
}
