// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyTrelloAPIKey, "  abc123  \n")
				writeFile(t, dir, KeyTrelloToken, "tok_xyz\n")
				return dir
			},
			want: map[string]string{
				KeyTrelloAPIKey: "abc123",
				KeyTrelloToken:  "tok_xyz",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyTrelloAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				KeyTrelloAPIKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, KeyTrelloToken, "tok")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				KeyTrelloToken: "tok",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var logs bytes.Buffer
	got, err := Load(dir, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
	assert.Contains(t, logs.String(), "bad-key")
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".secrets")

	require.NoError(t, Save(dir, KeyTrelloAPIKey, "  abc  "))
	require.NoError(t, Save(dir, KeyTrelloToken, "tok"))

	info, err := os.Stat(filepath.Join(dir, KeyTrelloAPIKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyTrelloAPIKey: "abc", KeyTrelloToken: "tok"}, got)
}

func TestRequire(t *testing.T) {
	s := map[string]string{KeyTrelloAPIKey: "k"}

	vals, err := Require(s, KeyTrelloAPIKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, vals)

	_, err = Require(s, KeyTrelloAPIKey, KeyTrelloToken)
	require.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), KeyTrelloToken)
	assert.NotContains(t, err.Error(), KeyTrelloAPIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
