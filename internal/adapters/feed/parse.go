package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/snapshot"
	"github.com/spf13/cast"
)

var errUnknownShape = errors.New("unrecognized daily file shape")

type dailyObject struct {
	Records json.RawMessage       `json:"records"`
	Date    any                   `json:"date"`
	Agents  map[string]dailyAgent `json:"agents"`
}

type dailyAgent struct {
	DisplayName   any `json:"display_name"`
	Name          any `json:"name"`
	XHandle       any `json:"xHandle"`
	TwitterHandle any `json:"twitter_handle"`
	Posts         any `json:"posts"`
	Impressions   any `json:"impressions"`
}

// parseDaily accepts the three daily file layouts: a bare records array, an
// object with a records array, or a single day keyed by agent id.
func parseDaily(data []byte) ([]domain.Record, []domain.RecordRejection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, errUnknownShape
	}

	if trimmed[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, nil, fmt.Errorf("decode records array: %w", err)
		}
		records, rejections := snapshot.DecodeRecords(entries)
		return records, rejections, nil
	}

	var obj dailyObject
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, nil, fmt.Errorf("decode daily object: %w", err)
	}

	if records := bytes.TrimSpace(obj.Records); len(records) > 0 && records[0] == '[' {
		var entries []json.RawMessage
		if err := json.Unmarshal(records, &entries); err != nil {
			return nil, nil, fmt.Errorf("decode records array: %w", err)
		}
		decoded, rejections := snapshot.DecodeRecords(entries)
		return decoded, rejections, nil
	}

	if obj.Date != nil && obj.Agents != nil {
		decoded, rejections := agentsToRecords(obj.Date, obj.Agents)
		return decoded, rejections, nil
	}

	return nil, nil, errUnknownShape
}

func agentsToRecords(date any, agents map[string]dailyAgent) ([]domain.Record, []domain.RecordRejection) {
	ids := make([]string, 0, len(agents))
	for id := range agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]domain.Record, 0, len(ids))
	var rejections []domain.RecordRejection
	for i, id := range ids {
		agent := agents[id]
		record, err := domain.NormalizeRecord(domain.RawRecord{
			Date:        date,
			AgentID:     id,
			DisplayName: firstNonBlank(agent.DisplayName, agent.Name),
			XHandle:     firstNonBlank(agent.XHandle, agent.TwitterHandle),
			Posts:       agent.Posts,
			Impressions: agent.Impressions,
		})
		if err != nil {
			rejections = append(rejections, domain.RecordRejection{Index: i, Reason: err.Error()})
			continue
		}
		records = append(records, record)
	}

	return records, rejections
}

func firstNonBlank(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s := cast.ToString(v); s != "" {
			return v
		}
	}
	return nil
}
