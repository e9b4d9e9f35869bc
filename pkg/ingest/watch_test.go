package ingest

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/xhfile/internal/xhtest"
	"github.com/ssargent/xhfile/pkg/catalog"
)

func TestWatcher(t *testing.T) {
	ing, cat, _ := newTestIngester(t, Config{})
	dir := t.TempDir()

	w, err := Watch(ing, dir, 50*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	count := func() int {
		n, err := cat.Count()
		require.NoError(t, err)
		return n
	}

	path := filepath.Join(dir, "a.xh")
	require.NoError(t, os.WriteFile(path, xhtest.Stream(t, binary.BigEndian, 2, 3), 0600))
	require.Eventually(t, func() bool { return count() == 2 }, 5*time.Second, 20*time.Millisecond)

	entries, err := cat.List(catalog.Filter{Station: "STB"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].NPTS)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool { return count() == 0 }, 5*time.Second, 20*time.Millisecond)
}

func TestWatch_MissingDir(t *testing.T) {
	ing, _, _ := newTestIngester(t, Config{})
	_, err := Watch(ing, filepath.Join(t.TempDir(), "missing"), 0, nil)
	assert.Error(t, err)
}
