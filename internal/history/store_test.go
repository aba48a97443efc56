// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "config", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{CardID: "1", Name: "Fix Login", File: "pdf/fix-login.pdf", Mode: "dedup", RenderedAt: base}))
	require.NoError(t, s.Record(ctx, Entry{CardID: "2", Name: "Add Signup", File: "pdf/add-signup.pdf", Mode: "dedup", RenderedAt: base.Add(time.Minute)}))
	require.NoError(t, s.Record(ctx, Entry{CardID: "1", Name: "Fix Login", File: "pdf/fix-login.pdf", Mode: "unconditional", RenderedAt: base.Add(time.Hour)}))

	all, err := s.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "unconditional", all[0].Mode, "newest first")
	assert.Equal(t, "2", all[1].CardID)
	assert.True(t, all[2].RenderedAt.Equal(base))

	one, err := s.List(ctx, Query{CardID: "1"})
	require.NoError(t, err)
	assert.Len(t, one, 2)

	limited, err := s.List(ctx, Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecord_DefaultsTimestamp(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Record(context.Background(), Entry{CardID: "9", Name: "n", File: "f", Mode: "dedup"}))

	entries, err := s.List(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].RenderedAt.Equal(fixed))
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{CardID: "1", Name: "n", File: "f", Mode: "dedup"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
