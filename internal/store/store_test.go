package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*PageStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	ps, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ps.Close() })
	return ps, path
}

func TestAddAndList(t *testing.T) {
	assert := assert.New(t)
	ps, _ := openTemp(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id0 := int64(0)
	_, err := ps.Add(Page{File: "index.html", Contract: "0xabc", TxHash: "0x01", PageID: &id0, Size: 100, MinifiedSize: 60, CreatedAt: base})
	require.NoError(t, err)
	rowID, err := ps.Add(Page{File: "about.html", Contract: "0xabc", TxHash: "0x02", Size: 50, MinifiedSize: 40, CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(int64(2), rowID)

	pages, err := ps.List(0)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal("about.html", pages[0].File)
	assert.Nil(pages[0].PageID)
	assert.Equal("index.html", pages[1].File)
	require.NotNil(t, pages[1].PageID)
	assert.Equal(int64(0), *pages[1].PageID)
	assert.Equal(60, pages[1].MinifiedSize)
	assert.True(base.Equal(pages[1].CreatedAt))

	limited, err := ps.List(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal("0x02", limited[0].TxHash)
}

func TestAddSetsCreatedAt(t *testing.T) {
	ps, _ := openTemp(t)

	_, err := ps.Add(Page{File: "a.html", Contract: "0xabc", TxHash: "0x01"})
	require.NoError(t, err)

	pages, err := ps.List(0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.False(t, pages[0].CreatedAt.IsZero())
}

func TestReopenKeepsHistory(t *testing.T) {
	ps, path := openTemp(t)
	_, err := ps.Add(Page{File: "a.html", Contract: "0xabc", TxHash: "0x01"})
	require.NoError(t, err)
	require.NoError(t, ps.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	pages, err := reopened.List(0)
	require.NoError(t, err)
	assert.Len(t, pages, 1)

	var applied int
	require.NoError(t, reopened.DB.Get(&applied, "SELECT COUNT(*) FROM migrations"))
	assert.Equal(t, len(migrations), applied)
}
