// Package snapshot decodes and encodes the dashboard snapshot document:
//
//	{"lastUpdated": "...", "dataVersion": "2.0", "summary": {...}, "records": [...]}
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/cast"
)

const DataVersion = "2.0"

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is the on-disk shape written by the feed builder.
type Document struct {
	LastUpdated string          `json:"lastUpdated"`
	DataVersion string          `json:"dataVersion,omitempty"`
	Summary     domain.Summary  `json:"summary"`
	Records     []domain.Record `json:"records"`
}

type wireDocument struct {
	LastUpdated any               `json:"lastUpdated"`
	Summary     json.RawMessage   `json:"summary"`
	Records     []json.RawMessage `json:"records"`
}

// WireRecord is one record as it appears in a snapshot or a daily file.
type WireRecord struct {
	Date        any `json:"date"`
	AgentID     any `json:"agent_id"`
	DisplayName any `json:"display_name"`
	XHandle     any `json:"xHandle"`
	Posts       any `json:"posts"`
	Impressions any `json:"impressions"`
}

func (w WireRecord) Raw() domain.RawRecord {
	return domain.RawRecord{
		Date:        w.Date,
		AgentID:     w.AgentID,
		DisplayName: w.DisplayName,
		XHandle:     w.XHandle,
		Posts:       w.Posts,
		Impressions: w.Impressions,
	}
}

// Decode parses a snapshot. Malformed entries inside the records array are
// dropped and reported as rejections; a document that is not JSON or has no
// records array fails with domain.ErrMalformedSnapshot.
func Decode(data []byte) (domain.Dataset, []domain.RecordRejection, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Dataset{}, nil, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	if doc.Records == nil {
		return domain.Dataset{}, nil, fmt.Errorf("%w: missing records array", domain.ErrMalformedSnapshot)
	}

	records, rejections := DecodeRecords(doc.Records)

	dataset := domain.Dataset{
		LastUpdated: parseTimestamp(doc.LastUpdated),
		Records:     records,
	}

	var summary domain.Summary
	if len(doc.Summary) > 0 && json.Unmarshal(doc.Summary, &summary) == nil {
		dataset.Summary = summary
	}

	return dataset, rejections, nil
}

// DecodeRecords normalizes every raw entry, keeping input order.
func DecodeRecords(entries []json.RawMessage) ([]domain.Record, []domain.RecordRejection) {
	records := make([]domain.Record, 0, len(entries))
	var rejections []domain.RecordRejection

	for i, entry := range entries {
		var wire WireRecord
		if err := json.Unmarshal(entry, &wire); err != nil {
			rejections = append(rejections, domain.RecordRejection{Index: i, Reason: fmt.Sprintf("decode record: %v", err)})
			continue
		}

		record, err := domain.NormalizeRecord(wire.Raw())
		if err != nil {
			rejections = append(rejections, domain.RecordRejection{Index: i, Reason: err.Error()})
			continue
		}

		records = append(records, record)
	}

	return records, rejections
}

// Encode renders a document with two-space indentation.
func Encode(doc Document) ([]byte, error) {
	if doc.Records == nil {
		doc.Records = []domain.Record{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	return append(data, '\n'), nil
}

// FormatTimestamp renders t as an ISO-8601 UTC timestamp with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(value any) time.Time {
	if value == nil {
		return time.Time{}
	}

	s, ok := value.(string)
	if !ok || s == "" {
		return time.Time{}
	}

	parsed, err := cast.ToTimeE(s)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}
