package scanner

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
}

func TestScan_FiltersExtensionsAndDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")
	writeFile(t, dir, "a.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b.png"), 0o755))

	files := Scan(dir, nil, testLogger())

	require.Len(t, files, 1)
	assert.Equal(t, "a.jpg", files[0].Name)
	assert.Equal(t, "a", files[0].Collection)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), files[0].Path)
}

func TestScan_AllExtensionsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"one.jpg", "two.JPEG", "three.Png", "four.tbn"} {
		writeFile(t, dir, name)
	}

	files := Scan(dir, nil, testLogger())
	assert.Len(t, files, 4)
}

func TestScan_StripsOnlyExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "My-Collection.v2.jpg")

	files := Scan(dir, nil, testLogger())
	require.Len(t, files, 1)
	assert.Equal(t, "My-Collection.v2", files[0].Collection)
}

func TestScan_MissingDirectory(t *testing.T) {
	files := Scan(filepath.Join(t.TempDir(), "nope"), nil, testLogger())
	assert.Empty(t, files)
}

func TestScan_AppliesAliases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mission-impossible.jpg")

	aliases := map[string]string{"mission-impossible": "Mission: Impossible"}

	files := Scan(dir, aliases, testLogger())
	require.Len(t, files, 1)
	assert.Equal(t, "Mission: Impossible", files[0].Collection)
}

func TestLoadAliases_Missing(t *testing.T) {
	aliases := LoadAliases(t.TempDir(), testLogger())
	assert.Empty(t, aliases)
}

func TestLoadAliases_Valid(t *testing.T) {
	dir := t.TempDir()
	content := "mission-impossible: \"Mission: Impossible\"\nstar-wars: Star Wars\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, AliasFileName), []byte(content), 0o644))

	aliases := LoadAliases(dir, testLogger())
	assert.Equal(t, "Mission: Impossible", aliases["mission-impossible"])
	assert.Equal(t, "Star Wars", aliases["star-wars"])
}

func TestLoadAliases_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, AliasFileName), []byte("not: [valid: yaml"), 0o644))

	aliases := LoadAliases(dir, testLogger())
	assert.Empty(t, aliases)
}

func TestEligible(t *testing.T) {
	assert.True(t, Eligible("x.jpg"))
	assert.True(t, Eligible("x.TBN"))
	assert.False(t, Eligible("x.txt"))
	assert.False(t, Eligible("x"))
}
