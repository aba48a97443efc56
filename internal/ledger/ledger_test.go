// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(data, &ids))
	return ids
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "printed_cards.json")

	l, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains("1"))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Open must not create the file")
}

func TestOpen_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"truncated array", `["a", "b"`},
		{"object instead of array", `{"a": 1}`},
		{"array of numbers", `[1, 2]`},
		{"null", `null`},
		{"empty file", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "printed_cards.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Open(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLedgerCorrupt)

			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, tt.content, string(data), "corrupt ledger must be left untouched")
		})
	}
}

func TestOpen_EmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printed_cards.json")
	require.NoError(t, os.WriteFile(path, []byte(" [ ] \n"), 0o644))

	l, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestOpen_CollapsesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printed_cards.json")
	require.NoError(t, os.WriteFile(path, []byte(`["a","b","a"]`), 0o644))

	l, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, l.IDs())
}

func TestAdd_PersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "printed_cards.json")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Add("1"))

	assert.Equal(t, []string{"1"}, readIDs(t, path))
	assert.True(t, l.Contains("1"))
}

func TestAdd_FileIsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printed_cards.json")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Add("1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestAdd_Idempotent(t *testing.T) {
	dir := t.TempDir()
	once := filepath.Join(dir, "once.json")
	twice := filepath.Join(dir, "twice.json")

	l1, err := Open(once)
	require.NoError(t, err)
	require.NoError(t, l1.Add("1"))

	l2, err := Open(twice)
	require.NoError(t, err)
	require.NoError(t, l2.Add("1"))
	require.NoError(t, l2.Add("1"))

	a, err := os.ReadFile(once)
	require.NoError(t, err)
	b, err := os.ReadFile(twice)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, 1, l2.Len())
}

func TestAdd_PrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printed_cards.json")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Add("a"))
	require.NoError(t, l.Add("b"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", string(data))
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printed_cards.json")
	want := []string{"5f1c", "1", "zz", "abc"}

	l, err := Open(path)
	require.NoError(t, err)
	for _, id := range want {
		require.NoError(t, l.Add(id))
	}

	reloaded, err := Open(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, reloaded.IDs(), cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("reloaded ids mismatch (-want +got):\n%s", diff)
	}
	for _, id := range want {
		assert.True(t, reloaded.Contains(id), id)
	}
}

func TestRemoveAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printed_cards.json")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Add("a"))
	require.NoError(t, l.Add("b"))

	removed, err := l.Remove("a")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"b"}, readIDs(t, path))

	removed, err = l.Remove("missing")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, l.Clear())
	assert.Equal(t, []string{}, readIDs(t, path))
	assert.False(t, l.Contains("b"))
}
