package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagestore/pkg/primitives"
)

func TestLogManager_AppendAssignsOffsets(t *testing.T) {
	lm, err := NewLogManager(filepath.Join(t.TempDir(), "test.wal"))
	require.NoError(t, err)
	defer lm.Close()

	first, err := lm.Append([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, primitives.LSN(0), first)

	second, err := lm.Append([]byte("defgh"))
	require.NoError(t, err)
	assert.Equal(t, primitives.LSN(7), second, "LSN is the byte offset: 4-byte header plus payload")
	assert.Equal(t, primitives.LSN(16), lm.NextLSN())
}

func TestLogManager_FlushMakesRecordsDurable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")
	lm, err := NewLogManager(path)
	require.NoError(t, err)
	defer lm.Close()

	_, err = lm.Append([]byte("buffered"))
	require.NoError(t, err)

	require.NoError(t, lm.Flush())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(lm.NextLSN()), info.Size())
}

func TestLogManager_ReopenResumesLSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")

	lm, err := NewLogManager(path)
	require.NoError(t, err)
	_, err = lm.Append([]byte("first"))
	require.NoError(t, err)
	require.NoError(t, lm.Close())

	lm2, err := NewLogManager(path)
	require.NoError(t, err)
	defer lm2.Close()

	lsn, err := lm2.Append([]byte("second"))
	require.NoError(t, err)
	assert.Equal(t, primitives.LSN(9), lsn)
}
