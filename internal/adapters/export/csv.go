// Package export writes the Filtered view as a CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
)

var header = []string{"Date", "Agent", "X Handle", "Posts", "Impressions"}

// Write emits one header row and one row per record, in the given order.
func Write(w io.Writer, records []domain.Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, record := range records {
		row := []string{
			string(record.Date),
			record.DisplayName,
			record.XHandle,
			strconv.FormatInt(record.Posts, 10),
			strconv.FormatInt(record.Impressions, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// FileName is the default export name for the day of now.
func FileName(now time.Time) string {
	return fmt.Sprintf("x-analytics-%s.csv", domain.DayOf(now))
}
