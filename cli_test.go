package repoint

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCLI_ThreePathsInInputOrder(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "profiles.json", `{"host": "localhost:8080"}`)
	writeFixture(t, dir, "docker-compose.yml", "image: postgres\n")
	writeFixture(t, dir, "config.json", `{"api": "http://localhost"}`)

	out, _, err := runCLI(t, "",
		"--old", "localhost", "--new", "my-vm.example.com",
		"--paths", "profiles.json", "docker-compose.yml", "config.json")
	require.NoError(t, err)

	assert.Equal(t, "updated: profiles.json\nno change: docker-compose.yml\nupdated: config.json\n", out)
	assert.Equal(t, `{"host": "my-vm.example.com:8080"}`, readFixture(t, dir, "profiles.json"))
	assert.Equal(t, `{"api": "http://my-vm.example.com"}`, readFixture(t, dir, "config.json"))
}

func TestCLI_MissingFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")

	out, _, err := runCLI(t, "",
		"--old", "localhost", "--new", "vm",
		"--paths", "does/not/exist.json", "--paths", "a.json")
	require.NoError(t, err)
	assert.Equal(t, "skip (not found): does/not/exist.json\nupdated: a.json\n", out)
}

func TestCLI_PathsEchoedVerbatim(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "x")

	out, _, err := runCLI(t, "", "--old", "y", "--new", "z", "--paths", "./a.json")
	require.NoError(t, err)
	assert.Equal(t, "no change: ./a.json\n", out)
}

func TestCLI_MissingRequiredFlags(t *testing.T) {
	_, _, err := runCLI(t, "", "--new", "vm", "--paths", "a.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "old" not set`)

	_, _, err = runCLI(t, "", "--paths", "a.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"old", "new"`)
}

func TestCLI_EmptyOldIsAccepted(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.txt", "ab")

	out, _, err := runCLI(t, "", "--old", "", "--new", "-", "--paths", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "updated: a.txt\n", out)
	assert.Equal(t, "-a-b-", readFixture(t, dir, "a.txt"))
}

func TestCLI_PositionalWithoutPathsFlag(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")

	out, _, err := runCLI(t, "", "--old", "localhost", "--new", "vm", "a.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--paths")
	assert.NotContains(t, out, "updated:")
	assert.Equal(t, "localhost", readFixture(t, dir, "a.json"))
}

func TestCLI_ManifestWithoutPathsFlag(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")
	writeFixture(t, dir, "ENDPOINTS.md", "```paths\na.json\n```\n")

	out, _, err := runCLI(t, "", "--old", "localhost", "--new", "vm", "--manifest", "ENDPOINTS.md")
	require.NoError(t, err)
	assert.Equal(t, "updated: a.json\n", out)
}

func TestCLI_NoPaths(t *testing.T) {
	_, _, err := runCLI(t, "", "--old", "a", "--new", "b")
	assert.ErrorIs(t, err, ErrNoPaths)
}

func TestCLI_UnknownFlag(t *testing.T) {
	_, _, err := runCLI(t, "", "--old", "a", "--new", "b", "--paths", "x", "--regex")
	assert.Error(t, err)
}

func TestCLI_DryRun(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")
	writeFixture(t, dir, "b.json", "other")

	out, _, err := runCLI(t, "", "--dry-run", "--old", "localhost", "--new", "vm", "--paths", "a.json", "b.json")
	require.NoError(t, err)
	assert.Equal(t, "would update: a.json\nno change: b.json\n", out)
	assert.Equal(t, "localhost", readFixture(t, dir, "a.json"))
}

func TestCLI_DryRunAndNvimExclusive(t *testing.T) {
	_, _, err := runCLI(t, "", "--dry-run", "--nvim", "--old", "a", "--new", "b", "--paths", "x")
	assert.Error(t, err)
}

func TestCLI_PathsFromStdin(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")
	writeFixture(t, dir, "b.json", "localhost")

	out, _, err := runCLI(t, "b.json\n", "--old", "localhost", "--new", "vm", "--paths", "a.json", "-")
	require.NoError(t, err)
	assert.Equal(t, "updated: a.json\nupdated: b.json\n", out)
}

func TestCLI_Manifest(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "fixtures/profiles.json", `{"host": "localhost"}`)
	writeFixture(t, dir, "ENDPOINTS.md", "```paths\nfixtures/profiles.json\nfixtures/missing.json\n```\n")

	out, _, err := runCLI(t, "", "--old", "localhost", "--new", "vm", "--manifest", "ENDPOINTS.md")
	require.NoError(t, err)
	assert.Equal(t, "updated: fixtures/profiles.json\nskip (not found): fixtures/missing.json\n", out)
}

func TestCLI_FatalErrorPrintsEarlierLines(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	writeFixture(t, dir, "c.json", "localhost")

	out, _, err := runCLI(t, "", "--old", "localhost", "--new", "vm", "--paths", "a.json", "sub", "c.json")
	require.Error(t, err)
	assert.Equal(t, "updated: a.json\n", out)
	assert.Equal(t, "vm", readFixture(t, dir, "a.json"))
	assert.Equal(t, "localhost", readFixture(t, dir, "c.json"))
}

func TestCLI_DebugLogsGoToStderr(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFixture(t, dir, "a.json", "localhost")

	out, errOut, err := runCLI(t, "", "--log-level", "debug", "--old", "localhost", "--new", "vm", "--paths", "a.json")
	require.NoError(t, err)
	assert.Equal(t, "updated: a.json\n", out)
	assert.Contains(t, errOut, "rewrote file")
}

func TestCLI_Completion(t *testing.T) {
	out, _, err := runCLI(t, "", "--completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "repoint")

	_, _, err = runCLI(t, "", "--completion", "tcsh")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
