package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand(newLogger(&out))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	out, err := execute(t, "--dir", dir)
	require.NoError(t, err)

	for _, name := range []string{
		"icon-16.png", "icon-24.png", "icon-48.png", "icon-128.png",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, out, "Created "+filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "favicon.ico"))
	assert.Contains(t, out, "All icons have been created.")
}

func TestConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir = "`+filepath.ToSlash(filepath.Join(dir, "from-config"))+`"
sizes = [32]
favicon = true
`), 0644))

	// Flags win over the file.
	out := filepath.Join(dir, "from-flags")
	_, err := execute(t, "-c", path, "-d", out, "--manifest", "--favicon=false")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "icon-32.png"))
	assert.FileExists(t, filepath.Join(out, "icons.json"))
	assert.NoFileExists(t, filepath.Join(out, "favicon.ico"))
	assert.NoDirExists(t, filepath.Join(dir, "from-config"))
}

func TestSheet(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "-d", dir, "-s", "16", "-s", "48",
		"--sheet", "--sheet-url", "https://deepwiki.com")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "preview.png"))
	assert.NoFileExists(t, filepath.Join(dir, "icon-24.png"))
}

func TestVerboseMissingFont(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "-v", "-d", dir, "-s", "48",
		"--font", filepath.Join(dir, "missing.ttf"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "icon-48.png"))
	assert.Contains(t, out, "skipping badge letter")
}

func TestInvalid(t *testing.T) {
	_, err := execute(t, "-d", t.TempDir(), "-s", "0")
	assert.Error(t, err)

	_, err = execute(t, "unexpected")
	assert.Error(t, err)

	_, err = execute(t, "-c", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
