package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// fixedClock returns a clock that starts at a fixed instant and advances by
// step on each call.
func fixedClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur := t
		t = t.Add(step)
		return cur
	}
}

func TestBackup_CopiesFilesAndManifest(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), ".cursor", "mcp.json")
	writeFile(t, src, `{"mcpServers":{}}`)

	m := NewManager(WithBackupDir(root), WithToolVersion("1.2.3"))
	mf, err := m.Backup("cursor", []string{src, filepath.Join(root, "missing.json")})
	require.NoError(t, err)

	require.Len(t, mf.Files, 1)
	assert.Equal(t, src, mf.Files[0].OriginalPath)
	assert.Equal(t, os.FileMode(0o600), mf.Files[0].Mode)
	assert.Equal(t, "1.2.3", mf.ToolVersion)
	assert.Len(t, mf.Files[0].SHA256Hash, 64)

	copied, err := os.ReadFile(filepath.Join(root, "cursor", mf.ID, mf.Files[0].RelPath))
	require.NoError(t, err)
	assert.JSONEq(t, `{"mcpServers":{}}`, string(copied))

	loaded, err := m.Get("cursor", mf.ID)
	require.NoError(t, err)
	assert.Equal(t, mf.Files, loaded.Files)
}

func TestBackup_NothingToBackUp(t *testing.T) {
	root := t.TempDir()
	m := NewManager(WithBackupDir(root))

	_, err := m.Backup("cursor", []string{filepath.Join(root, "none.json")})
	require.ErrorIs(t, err, ErrNothingToBackUp)

	_, err = os.Stat(filepath.Join(root, "cursor"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "no editor directory should be created")
}

func TestBackup_Collision(t *testing.T) {
	backupDir := t.TempDir()
	srcFile := filepath.Join(t.TempDir(), "test.txt")
	writeFile(t, srcFile, "test content")

	m := NewManager(WithBackupDir(backupDir))
	m.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	first, err := m.Backup("codex", []string{srcFile})
	require.NoError(t, err)
	second, err := m.Backup("codex", []string{srcFile})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "20260301T120000-1", second.ID)
}

func TestList_NewestFirstAndPrune(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, src, "[mcp_servers]\n")

	m := NewManager(WithBackupDir(root), WithRetentionCount(3))
	m.now = fixedClock(time.Minute)

	var ids []string
	for range 5 {
		mf, err := m.Backup("codex", []string{src})
		require.NoError(t, err)
		ids = append(ids, mf.ID)
	}

	list, err := m.List("codex")
	require.NoError(t, err)
	require.Len(t, list, 3, "backup should prune to the retention count")
	assert.Equal(t, ids[4], list[0].ID)
	assert.Equal(t, ids[2], list[2].ID)

	require.NoError(t, m.Prune("codex", 1))
	list, err = m.List("codex")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ids[4], list[0].ID)

	require.NoError(t, m.Prune("codex", 0))
	_, err = m.List("codex")
	require.ErrorIs(t, err, ErrNoBackupsFound)
}

func TestPrune_NoBackups(t *testing.T) {
	m := NewManager(WithBackupDir(t.TempDir()))
	require.NoError(t, m.Prune("cursor", 2))
	require.Error(t, m.Prune("cursor", -1))
}

func TestRestore(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), ".claude.json")
	writeFile(t, src, `{"theme":"dark"}`)

	m := NewManager(WithBackupDir(root))
	mf, err := m.Backup("claude-code", []string{src})
	require.NoError(t, err)

	writeFile(t, src, `{"theme":"light"}`)
	require.NoError(t, m.Restore("claude-code", mf.ID))

	got, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(got))

	copied := filepath.Join(root, "claude-code", mf.ID, mf.Files[0].RelPath)
	require.NoError(t, os.WriteFile(copied, []byte("tampered"), 0o600))
	require.ErrorIs(t, m.Restore("claude-code", mf.ID), ErrBackupCorrupted)
}

func TestGenerateRelPath(t *testing.T) {
	tests := []string{"/usr/local/bin", "C:\\Users\\Data", "file:name"}

	for _, in := range tests {
		got := generateRelPath(in)
		if strings.Contains(got, ":") {
			t.Errorf("generateRelPath(%q) = %q contains colon", in, got)
		}
		if filepath.IsAbs(got) {
			t.Errorf("generateRelPath(%q) = %q is absolute", in, got)
		}
	}
}
