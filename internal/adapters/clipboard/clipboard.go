// Package clipboard reads the system clipboard.
package clipboard

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/MyCarrier-DevOps/permalink-open/internal/domain"
)

// Reader reads clipboard text. It implements domain.ClipboardReader.
type Reader struct {
	read        func() (string, error)
	unsupported bool
}

// NewReader creates a Reader backed by the system clipboard.
func NewReader() *Reader {
	return &Reader{read: clipboard.ReadAll, unsupported: clipboard.Unsupported}
}

// NewReaderWithSource creates a Reader with a custom source.
// This is useful for testing.
func NewReaderWithSource(read func() (string, error)) *Reader {
	return &Reader{read: read}
}

// ReadClipboard returns the current clipboard text.
func (r *Reader) ReadClipboard(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.unsupported {
		return "", domain.ErrClipboardUnavailable
	}
	text, err := r.read()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrClipboardUnavailable, err)
	}
	return text, nil
}
