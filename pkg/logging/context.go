package logging

import (
	"log/slog"

	"pagestore/pkg/primitives"
)

// WithPage creates a logger carrying the page id.
// Use this in buffer pool and index paths that operate on one page.
//
// Example:
//
//	log := logging.WithPage(pid)
//	log.Debug("evicting", "frame_id", fid)
func WithPage(id primitives.PageID) *slog.Logger {
	return GetLogger().With("page_id", int32(id))
}

// WithFrame creates a logger carrying the frame id.
func WithFrame(id primitives.FrameID) *slog.Logger {
	return GetLogger().With("frame_id", int(id))
}

// WithIndex creates a logger carrying the index name.
//
// Example:
//
//	log := logging.WithIndex("orders_pk")
//	log.Debug("growing bucket block", "bucket", idx)
func WithIndex(name string) *slog.Logger {
	return GetLogger().With("index", name)
}

// WithTx creates a logger carrying the transaction id.
func WithTx(tid string) *slog.Logger {
	return GetLogger().With("tx_id", tid)
}
