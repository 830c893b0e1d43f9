package file

import (
	"context"
	"fmt"

	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/spf13/afero"
)

type Source struct {
	fs   afero.Fs
	path string
}

var _ ports.SnapshotSource = (*Source)(nil)

func New(fs afero.Fs, path string) *Source {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Source{fs: fs, path: path}
}

func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	return data, nil
}

func (s *Source) Describe() string {
	return s.path
}
