package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/bnema/x-analytics-cli/internal/snapshot"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildNow = time.Date(2024, 1, 4, 6, 0, 0, 123_000_000, time.UTC)

func writeFile(t *testing.T, fs afero.Fs, path string, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestBuilderMergesAllDailyShapes(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/in/2024-01-01.json", `{"date": "2024-01-01", "agents": {
    "zed": {"name": "Zed", "twitter_handle": "@zed_x", "posts": 2, "impressions": 20},
    "amy": {"display_name": "Amy", "xHandle": "@amy", "posts": "3"},
    "nobody": {}
  }}`)
	writeFile(t, fs, "/in/2024-01-02.json", `{"records": [
    {"date": "2024-01-02", "agent_id": "amy", "display_name": "Amy", "posts": 4, "impressions": 40}
  ]}`)
	writeFile(t, fs, "/in/2024-01-03.json", `[
    {"date": "2024-01-03", "agent_id": "zed", "posts": 1, "impressions": 10},
    {"date": "2024-01-03", "agent_id": "amy", "posts": 6, "impressions": 60}
  ]`)
	writeFile(t, fs, "/in/notes.txt", `not json`)

	builder := NewBuilder(fs, ports.FixedClock(buildNow), nil)
	result, err := builder.Build(context.Background(), "/in", "/out/data/data.json")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Files)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 6, result.Records)
	assert.Equal(t, domain.Summary{TotalAgents: 3, TotalDays: 3, TotalPosts: 16, TotalImpressions: 130}, result.Summary)
	assert.Equal(t, "2024-01-04T06:00:00.123Z", result.LastUpdated)

	data, err := afero.ReadFile(fs, "/out/data/data.json")
	require.NoError(t, err)

	dataset, rejections, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, rejections)
	assert.Equal(t, buildNow, dataset.LastUpdated)
	assert.Equal(t, result.Summary, dataset.Summary)

	assert.Equal(t, []domain.Record{
		{Date: "2024-01-03", AgentID: "amy", DisplayName: "amy", XHandle: "@amy", Posts: 6, Impressions: 60},
		{Date: "2024-01-03", AgentID: "zed", DisplayName: "zed", XHandle: "@zed", Posts: 1, Impressions: 10},
		{Date: "2024-01-02", AgentID: "amy", DisplayName: "Amy", XHandle: "@amy", Posts: 4, Impressions: 40},
		{Date: "2024-01-01", AgentID: "amy", DisplayName: "Amy", XHandle: "@amy", Posts: 3},
		{Date: "2024-01-01", AgentID: "nobody", DisplayName: "nobody", XHandle: "@nobody"},
		{Date: "2024-01-01", AgentID: "zed", DisplayName: "Zed", XHandle: "@zed_x", Posts: 2, Impressions: 20},
	}, dataset.Records)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2.0", raw["dataVersion"])
}

func TestBuilderSkipsBrokenFilesAndLogsThem(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/in/a.json", `{"records": [`)
	writeFile(t, fs, "/in/b.json", `{"unexpected": true}`)
	writeFile(t, fs, "/in/c.json", `[{"date": "2024-01-01", "agent_id": "a", "posts": 1}, {"agent_id": "", "date": "2024-01-01"}]`)

	logger, hook := logrustest.NewNullLogger()
	result, err := NewBuilder(fs, ports.FixedClock(buildNow), logger).Build(context.Background(), "/in", "/out.json")
	require.NoError(t, err)

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "a.json", result.Skipped[0].Name)
	assert.Equal(t, "b.json", result.Skipped[1].Name)
	assert.Contains(t, result.Skipped[1].Err, "unrecognized daily file shape")
	assert.Equal(t, 1, result.Records)
	assert.Equal(t, 1, result.Rejected)

	var errorsLogged, warnings int
	for _, entry := range hook.AllEntries() {
		switch entry.Level {
		case logrus.ErrorLevel:
			errorsLogged++
		case logrus.WarnLevel:
			warnings++
			assert.Equal(t, "c.json", entry.Data["file"])
		}
	}
	assert.Equal(t, 2, errorsLogged)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, "snapshot written", hook.LastEntry().Message)
}

func TestBuilderCreatesMissingInputDirAndWritesEmptyFeed(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	result, err := NewBuilder(fs, ports.FixedClock(buildNow), nil).Build(context.Background(), "/daily_data", "/data/data.json")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Records)

	exists, err := afero.DirExists(fs, "/daily_data")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := afero.ReadFile(fs, "/data/data.json")
	require.NoError(t, err)
	dataset, _, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, dataset.Records)
}

func TestBuilderReplacesExistingOutputWithoutLeftovers(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/data/data.json", `stale`)
	writeFile(t, fs, "/in/a.json", `[{"date": "2024-01-01", "agent_id": "a", "posts": 1}]`)

	_, err := NewBuilder(fs, ports.FixedClock(buildNow), nil).Build(context.Background(), "/in", "/data/data.json")
	require.NoError(t, err)

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.json", entries[0].Name())
}

func TestBuilderStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/in/a.json", `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(fs, ports.FixedClock(buildNow), nil).Build(ctx, "/in", "/out.json")
	require.ErrorIs(t, err, context.Canceled)

	exists, err := afero.Exists(fs, "/out.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestParseDailyRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, _, err := parseDaily([]byte("  \n"))
	require.ErrorIs(t, err, errUnknownShape)
}
