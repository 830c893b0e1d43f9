package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	err := Write(&buf, []domain.Record{
		{Date: "2024-01-02", AgentID: "a1", DisplayName: "Alice", XHandle: "@a", Posts: 5, Impressions: 1500},
		{Date: "2024-01-01", AgentID: "a2", DisplayName: "Bob, Jr.", XHandle: "@b", Posts: 20, Impressions: 200},
		{Date: "2024-01-01", AgentID: "a3", DisplayName: `The "Agent"`, XHandle: "@c"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Date,Agent,X Handle,Posts,Impressions\n"+
		"2024-01-02,Alice,@a,5,1500\n"+
		"2024-01-01,\"Bob, Jr.\",@b,20,200\n"+
		"2024-01-01,\"The \"\"Agent\"\"\",@c,0,0\n", buf.String())
}

func TestWriteCSVHeaderOnlyForEmptyView(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "Date,Agent,X Handle,Posts,Impressions\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSVReportsWriterFailure(t *testing.T) {
	err := Write(failingWriter{}, []domain.Record{{Date: "2024-01-01", AgentID: "a"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "x-analytics-2024-03-09.csv", FileName(now))
}
