// Package wal implements the write-ahead log sink the buffer pool forces
// before writing a dirty page back to disk.
package wal

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"pagestore/pkg/primitives"
)

const writerBufferSize = 1 << 16

// LogManager appends length-prefixed records to a single log file. Records
// are buffered in memory until Flush forces them to stable storage; the LSN
// of a record is its byte offset in the file.
type LogManager struct {
	mu      sync.Mutex
	file    *os.File
	writer  *bufio.Writer
	nextLSN primitives.LSN
}

// NewLogManager opens or creates the log file at path and positions the
// next LSN after any existing records.
func NewLogManager(path string) (*LogManager, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", path)
	}

	pos, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "seeking to end of log")
	}

	return &LogManager{
		file:    file,
		writer:  bufio.NewWriterSize(file, writerBufferSize),
		nextLSN: primitives.LSN(pos),
	}, nil
}

// Append buffers one record and returns its LSN. The record is not durable
// until a subsequent Flush.
func (lm *LogManager) Append(record []byte) (primitives.LSN, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lsn := lm.nextLSN

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(record)))
	if _, err := lm.writer.Write(length[:]); err != nil {
		return 0, errors.Wrap(err, "appending log record header")
	}
	if _, err := lm.writer.Write(record); err != nil {
		return 0, errors.Wrap(err, "appending log record")
	}

	lm.nextLSN += primitives.LSN(4 + len(record))
	return lsn, nil
}

// Flush forces all buffered records to stable storage.
func (lm *LogManager) Flush() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := lm.writer.Flush(); err != nil {
		return errors.Wrap(err, "flushing log buffer")
	}
	return errors.Wrap(lm.file.Sync(), "syncing log file")
}

// NextLSN returns the LSN the next appended record will receive.
func (lm *LogManager) NextLSN() primitives.LSN {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return lm.nextLSN
}

// Close flushes buffered records and closes the log file.
func (lm *LogManager) Close() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := lm.writer.Flush(); err != nil {
		lm.file.Close()
		return errors.Wrap(err, "flushing log buffer")
	}
	return errors.Wrap(lm.file.Close(), "closing log file")
}
