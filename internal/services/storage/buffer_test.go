package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cap-inspect/internal/logger"
)

func newTestBuffer(t *testing.T, limit int) (*BufferService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewBufferService(dir, limit, logger.NewLogger(t.TempDir())), dir
}

func TestBufferService_FlushWritesSnapshots(t *testing.T) {
	buffer, dir := newTestBuffer(t, 10)

	buffer.Add([]byte("frame-a"), "Cap_Off")
	buffer.Add([]byte("frame-b"), "Scratch")
	require.Equal(t, 2, buffer.Len())

	buffer.Flush()
	require.Equal(t, 0, buffer.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var labels []string
	for _, e := range entries {
		labels = append(labels, e.Name())
	}
	joined := strings.Join(labels, " ")
	require.Contains(t, joined, "Cap_Off")
	require.Contains(t, joined, "Scratch")
}

func TestBufferService_DropsPastLimit(t *testing.T) {
	buffer, _ := newTestBuffer(t, 2)

	buffer.Add([]byte("a"), "Cap_Off")
	buffer.Add([]byte("b"), "Cap_Off")
	buffer.Add([]byte("c"), "Cap_Off")

	require.Equal(t, 2, buffer.Len())
}

func TestBufferService_FlushEmptyIsNoop(t *testing.T) {
	buffer, dir := newTestBuffer(t, 2)

	buffer.Flush()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
