package model

import (
	"context"
	"io"
)

// Storage is an object store conversation transcripts are archived to.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error
}
