package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories builds each Store implementation against a temp dir, so
// the contract tests below run identically for both.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_SaveLoad(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Save("snap-1", "word-counts", []byte(`[1,2,3]`)))

			data, err := s.Load("snap-1", "word-counts")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1,2,3]`), data)
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			_, err := s.Load("nope", "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Save("snap-1", "p", []byte(`[1]`)))
			require.NoError(t, s.Save("snap-1", "p", []byte(`[2]`)))

			data, err := s.Load("snap-1", "p")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[2]`), data)
		})
	}
}

func TestStore_List(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Save("snap-1", "a", []byte(`[1]`)))
			require.NoError(t, s.Save("snap-1", "b", []byte(`[1,2]`)))
			require.NoError(t, s.Save("snap-2", "c", []byte(`[]`)))

			infos, err := s.List("snap-1")
			require.NoError(t, err)
			require.Len(t, infos, 2)

			// Ordered by sequence of insertion.
			assert.Equal(t, "a", infos[0].Pool)
			assert.Equal(t, "b", infos[1].Pool)
			assert.Less(t, infos[0].Sequence, infos[1].Sequence)
			assert.Equal(t, "snap-1", infos[0].SnapshotID)
			assert.Equal(t, int64(3), infos[0].Size)
			assert.False(t, infos[0].Timestamp.IsZero())
		})
	}
}

func TestStore_ListUnknownSnapshot(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			infos, err := s.List("nope")
			require.NoError(t, err)
			assert.Empty(t, infos)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Save("snap-1", "a", []byte(`[1]`)))
			require.NoError(t, s.Delete("snap-1", "a"))

			_, err := s.Load("snap-1", "a")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting an absent aggregate is not an error.
			assert.NoError(t, s.Delete("snap-1", "a"))
		})
	}
}

func TestStore_DeleteSnapshot(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			defer s.Close()

			require.NoError(t, s.Save("snap-1", "a", []byte(`[1]`)))
			require.NoError(t, s.Save("snap-1", "b", []byte(`[2]`)))
			require.NoError(t, s.DeleteSnapshot("snap-1"))

			infos, err := s.List("snap-1")
			require.NoError(t, err)
			assert.Empty(t, infos)
		})
	}
}

func TestStore_Closed(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			require.NoError(t, s.Close())

			assert.ErrorIs(t, s.Save("a", "b", nil), ErrStoreClosed)
			_, err := s.Load("a", "b")
			assert.ErrorIs(t, err, ErrStoreClosed)
			_, err = s.List("a")
			assert.ErrorIs(t, err, ErrStoreClosed)
			assert.ErrorIs(t, s.Delete("a", "b"), ErrStoreClosed)
			assert.ErrorIs(t, s.DeleteSnapshot("a"), ErrStoreClosed)
		})
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	src := []byte(`[1]`)
	require.NoError(t, s.Save("snap", "p", src))
	src[1] = '9'

	data, err := s.Load("snap", "p")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), data, "store must not alias the caller's slice")
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("snap", "p", []byte(`[7]`)))
	require.NoError(t, s.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()

	data, err := s2.Load("snap", "p")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[7]`), data)
}
