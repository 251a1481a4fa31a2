package shell

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"smallsh/internal/config"
	"smallsh/internal/history"
)

func newTestShell(t *testing.T) (*Shell, *safeBuffer, *safeBuffer) {
	t.Helper()

	cfg := config.Default()
	cfg.HomeDir = t.TempDir()

	hist, err := history.New(afero.NewMemMapFs(), "hist", cfg.MaxHistory)
	require.NoError(t, err)

	out, errOut := &safeBuffer{}, &safeBuffer{}
	s := newShell(cfg, hist, testSelf(t), out, errOut)
	watchChildren(t, s.reaper)
	return s, out, errOut
}

// chdir moves into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestStatusTranscript(t *testing.T) {
	s, out, _ := newTestShell(t)
	script := filepath.Join(t.TempDir(), "selfterm.sh")
	require.NoError(t, os.WriteFile(script, []byte("kill -TERM $$\n"), 0644))

	lines := []string{
		"status",
		"# a comment is skipped",
		"",
		"   ",
		"false",
		"status",
		"sh " + script,
		"status",
		"true",
		"status",
	}
	for _, line := range lines {
		require.NoError(t, s.Execute(context.Background(), line), line)
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
	g.Assert(t, "status_transcript", []byte(out.String()))
}

func TestExecuteExpandsPID(t *testing.T) {
	s, _, _ := newTestShell(t)
	dir := t.TempDir()

	require.NoError(t, s.Execute(context.Background(), "echo $$ > "+filepath.Join(dir, "pid.$$")))

	data, err := os.ReadFile(filepath.Join(dir, "pid."+strconv.Itoa(os.Getpid())))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
}

func TestExecuteBackground(t *testing.T) {
	s, out, _ := newTestShell(t)

	require.NoError(t, s.Execute(context.Background(), "true &"))
	assert.Contains(t, out.String(), "Background process PID is: ")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "is done: exit value 0\n")
	}, 5*time.Second, 10*time.Millisecond)

	// Background completions never touch the foreground status.
	assert.Equal(t, Exited(0), s.last.Get())
}

func TestExecuteForegroundOnly(t *testing.T) {
	s, out, _ := newTestShell(t)
	s.mode.Toggle()

	require.NoError(t, s.Execute(context.Background(), "false &"))
	assert.NotContains(t, out.String(), "Background process PID")
	assert.Equal(t, Exited(1), s.last.Get())
}

func TestExecuteForkFailure(t *testing.T) {
	s, _, _ := newTestShell(t)
	s.launcher.Self = filepath.Join(t.TempDir(), "missing")
	s.last.Set(Exited(5))

	err := s.Execute(context.Background(), "true")
	assert.ErrorContains(t, err, "fork failed")
	assert.Equal(t, Exited(5), s.last.Get())
}

func TestExit(t *testing.T) {
	s, _, _ := newTestShell(t)

	assert.ErrorIs(t, s.Execute(context.Background(), "exit"), ErrExit)
	assert.ErrorIs(t, s.Execute(context.Background(), "exit now"), ErrExit)
}

func TestChangeDirectory(t *testing.T) {
	s, _, _ := newTestShell(t)
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	chdir(t, root)

	pwd := func() string {
		wd, err := os.Getwd()
		require.NoError(t, err)
		return wd
	}

	require.NoError(t, s.Execute(context.Background(), "cd a"))
	assert.Equal(t, filepath.Join(root, "a"), pwd())

	require.NoError(t, s.Execute(context.Background(), "cd b"))
	assert.Equal(t, filepath.Join(root, "a", "b"), pwd())

	require.NoError(t, s.Execute(context.Background(), "cd "+root))
	assert.Equal(t, root, pwd())

	assert.Error(t, s.Execute(context.Background(), "cd missing"))
	assert.Equal(t, root, pwd())

	home, err := filepath.EvalSymlinks(s.config.HomeDir)
	require.NoError(t, err)
	require.NoError(t, s.Execute(context.Background(), "cd"))
	assert.Equal(t, home, pwd())
}

func TestChangeDirectoryWithoutHome(t *testing.T) {
	s, _, _ := newTestShell(t)
	s.config.HomeDir = ""
	chdir(t, t.TempDir())
	before, err := os.Getwd()
	require.NoError(t, err)

	assert.ErrorContains(t, s.Execute(context.Background(), "cd"), "HOME not set")

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestHistoryBuiltin(t *testing.T) {
	s, out, _ := newTestShell(t)

	for _, line := range []string{"# skipped", "status", "", "history"} {
		require.NoError(t, s.Execute(context.Background(), line))
	}
	assert.Equal(t, "exit value 0\n1: status\n2: history\n", out.String())
}

func TestFilterInput(t *testing.T) {
	r, ok := filterInput('a')
	assert.True(t, ok)
	assert.Equal(t, 'a', r)
}
