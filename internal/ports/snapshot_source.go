package ports

import "context"

// SnapshotSource yields the raw bytes of a dashboard snapshot document.
type SnapshotSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Describe() string
}
