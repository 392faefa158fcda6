package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_LookupIsCaseInsensitive(t *testing.T) {
	records := []*Record{
		NewRecord("s1", PlatformHackerRank, "AliceCodes"),
		NewRecord("s2", PlatformHackerRank, "bob_solves"),
	}
	idx := NewIndex(records)

	rec, ok := idx.Lookup("alicecodes")
	require.True(t, ok)
	assert.Equal(t, Handle("s1"), rec.Handle)

	rec, ok = idx.Lookup("BOB_SOLVES")
	require.True(t, ok)
	assert.Equal(t, Handle("s2"), rec.Handle)

	_, ok = idx.Lookup("charlie")
	assert.False(t, ok)
}

func TestIndex_StripsSpaces(t *testing.T) {
	idx := NewIndex([]*Record{
		NewRecord("s1", PlatformGeeksforGeeks, " gfg user "),
	})

	rec, ok := idx.Lookup("gfguser")
	require.True(t, ok)
	assert.Equal(t, Handle("s1"), rec.Handle)
}

func TestIndex_CollisionLastWriteWins(t *testing.T) {
	first := NewRecord("s1", PlatformHackerRank, "SameHandle")
	second := NewRecord("s2", PlatformHackerRank, "samehandle")

	idx := NewIndex([]*Record{first, second})
	assert.Equal(t, 1, idx.Len())

	rec, ok := idx.Lookup("SameHandle")
	require.True(t, ok)
	assert.Equal(t, Handle("s2"), rec.Handle)
}

func TestIndex_IgnoresEmptyHandles(t *testing.T) {
	idx := NewIndex([]*Record{
		NewRecord("s1", PlatformCodeChef, ""),
	})
	assert.Equal(t, 0, idx.Len())
}
