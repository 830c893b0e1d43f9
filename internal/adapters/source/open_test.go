package source

import (
	"testing"

	filesource "github.com/bnema/x-analytics-cli/internal/adapters/source/file"
	"github.com/bnema/x-analytics-cli/internal/adapters/source/remote"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsSourceByScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		remote   bool
		describe string
	}{
		{location: "https://example.test/data.json", remote: true, describe: "https://example.test/data.json"},
		{location: "HTTP://example.test/data.json", remote: true, describe: "HTTP://example.test/data.json"},
		{location: "./data/data.json", describe: "./data/data.json"},
		{location: "file:///srv/data.json", describe: "/srv/data.json"},
		{location: "  /tmp/data.json ", describe: "/tmp/data.json"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			source, err := Open(tt.location, Options{Fs: afero.NewMemMapFs()})
			require.NoError(t, err)

			if tt.remote {
				assert.IsType(t, &remote.Source{}, source)
			} else {
				assert.IsType(t, &filesource.Source{}, source)
			}
			assert.Equal(t, tt.describe, source.Describe())
		})
	}
}

func TestOpenRejectsEmptyLocation(t *testing.T) {
	t.Parallel()

	_, err := Open("   ", Options{})
	require.ErrorIs(t, err, errEmptyLocation)
}
