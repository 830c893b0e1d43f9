package source

import (
	"errors"
	"strings"

	filesource "github.com/bnema/x-analytics-cli/internal/adapters/source/file"
	"github.com/bnema/x-analytics-cli/internal/adapters/source/remote"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/spf13/afero"
)

const DefaultLocation = "./data/data.json"

var errEmptyLocation = errors.New("snapshot location is empty")

type Options struct {
	Fs     afero.Fs
	Remote remote.Config
}

// Open picks the remote source for http(s) URLs and the file source otherwise.
func Open(location string, opts Options) (ports.SnapshotSource, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errEmptyLocation
	}

	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return remote.New(location, opts.Remote), nil
	}

	return filesource.New(opts.Fs, strings.TrimPrefix(location, "file://")), nil
}
