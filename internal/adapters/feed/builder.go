// Package feed rebuilds the dashboard snapshot from a directory of daily
// export files.
package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/logging"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/bnema/x-analytics-cli/internal/snapshot"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultInputDir  = "daily_data"
	DefaultOutput    = "data/data.json"
	maxParallelFiles = 4
	outputDirMode    = 0o755
	outputFileMode   = 0o644
	tempPattern      = ".data-*.json.tmp"
)

type Builder struct {
	fs     afero.Fs
	clock  ports.Clock
	logger logging.Logger
}

// FileError names a daily file that was skipped.
type FileError struct {
	Name string `json:"name"`
	Err  string `json:"error"`
}

type Result struct {
	Output      string         `json:"output"`
	Files       int            `json:"files"`
	Skipped     []FileError    `json:"skipped,omitempty"`
	Records     int            `json:"records"`
	Rejected    int            `json:"rejected"`
	Summary     domain.Summary `json:"summary"`
	LastUpdated string         `json:"lastUpdated"`
}

type fileResult struct {
	records    []domain.Record
	rejections []domain.RecordRejection
	err        error
}

func NewBuilder(fs afero.Fs, clock ports.Clock, logger logging.Logger) *Builder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Builder{fs: fs, clock: clock, logger: logger}
}

// Build reads every *.json file in inputDir, merges the records and writes
// the snapshot to output. Unreadable files are logged and skipped.
func (b *Builder) Build(ctx context.Context, inputDir string, output string) (Result, error) {
	if err := b.fs.MkdirAll(inputDir, outputDirMode); err != nil {
		return Result{}, fmt.Errorf("create input directory: %w", err)
	}

	names, err := b.dailyFiles(inputDir)
	if err != nil {
		return Result{}, err
	}

	results := make([]fileResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.readFile(filepath.Join(inputDir, name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Output: output, Files: len(names)}
	var records []domain.Record
	for i, r := range results {
		log := b.logger.WithField("file", names[i])
		if r.err != nil {
			log.WithError(r.err).Error("daily file skipped")
			result.Skipped = append(result.Skipped, FileError{Name: names[i], Err: r.err.Error()})
			continue
		}
		for _, rejection := range r.rejections {
			log.WithFields(logging.Fields{
				"index":  rejection.Index,
				"reason": rejection.Reason,
			}).Warn("record rejected")
		}
		result.Rejected += len(r.rejections)
		records = append(records, r.records...)
	}

	sortRecords(records)

	result.Records = len(records)
	result.Summary = domain.Summarize(records)
	result.LastUpdated = snapshot.FormatTimestamp(b.clock.Now())

	data, err := snapshot.Encode(snapshot.Document{
		LastUpdated: result.LastUpdated,
		DataVersion: snapshot.DataVersion,
		Summary:     result.Summary,
		Records:     records,
	})
	if err != nil {
		return Result{}, err
	}

	if err := b.writeAtomic(output, data); err != nil {
		return Result{}, err
	}

	b.logger.WithFields(logging.Fields{
		"output":  output,
		"files":   result.Files,
		"skipped": len(result.Skipped),
		"records": result.Records,
		"agents":  result.Summary.TotalAgents,
		"days":    result.Summary.TotalDays,
	}).Info("snapshot written")

	return result, nil
}

func (b *Builder) dailyFiles(dir string) ([]string, error) {
	entries, err := afero.ReadDir(b.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

func (b *Builder) readFile(path string) fileResult {
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return fileResult{err: fmt.Errorf("read daily file: %w", err)}
	}

	records, rejections, err := parseDaily(data)
	return fileResult{records: records, rejections: rejections, err: err}
}

// sortRecords orders newest day first, then by agent id.
func sortRecords(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].AgentID < records[j].AgentID
	})
}

func (b *Builder) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := b.fs.MkdirAll(dir, outputDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := afero.TempFile(b.fs, dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = b.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := b.fs.Chmod(tmpName, os.FileMode(outputFileMode)); err != nil {
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := b.fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	cleanup = false
	return nil
}
