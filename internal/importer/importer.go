// ABOUTME: Imports fitness-tracker CSV exports as metric samples.
// ABOUTME: Supports daily aggregate files and workout (sport record) files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/harperreed/energy/internal/logger"
	"github.com/harperreed/energy/internal/models"
	"github.com/harperreed/energy/internal/storage"
)

// SourceTracker marks samples that came from a tracker export.
const SourceTracker = "tracker"

// Format is the kind of export file.
type Format int

const (
	FormatAggregated Format = iota + 1
	FormatSportRecord
)

func (f Format) String() string {
	switch f {
	case FormatAggregated:
		return "aggregated_fitness_data"
	case FormatSportRecord:
		return "sport_record"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFile is returned for file names that match no known export.
var ErrUnsupportedFile = errors.New("unsupported file: expected an aggregated_fitness_data or sport_record export")

// DetectFormat picks the parser from the export's file name.
func DetectFormat(path string) (Format, error) {
	name := filepath.Base(path)
	switch {
	case strings.Contains(name, "aggregated_fitness_data"):
		return FormatAggregated, nil
	case strings.Contains(name, "sport_record"):
		return FormatSportRecord, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
	}
}

// Record is one parsed value before it becomes a stored sample.
type Record struct {
	RecordedAt time.Time
	Kind       models.MetricKind
	Value      float64
	Raw        string
}

// Sample converts the record into a metric sample.
func (r Record) Sample() *models.MetricSample {
	return models.NewMetricSample(r.Kind, r.Value).
		WithRecordedAt(r.RecordedAt).
		WithSource(SourceTracker).
		WithRaw(r.Raw)
}

// field maps a JSON path in the Value cell to a metric kind.
type field struct {
	path string
	kind models.MetricKind
	// seconds converts a duration in seconds to minutes.
	seconds bool
}

var dailyFields = map[string][]field{
	"sleep": {
		{path: "total_duration", kind: models.MetricSleepTotalMin},
		{path: "sleep_deep_duration", kind: models.MetricSleepDeepMin},
		{path: "sleep_score", kind: models.MetricSleepScore},
	},
	"steps":    {{path: "steps", kind: models.MetricStepsTotal}},
	"calories": {{path: "calories", kind: models.MetricCaloriesTotal}},
	"stress":   {{path: "avg_stress", kind: models.MetricStressAvg}},
	"heart_rate": {
		{path: "avg_rhr", kind: models.MetricRHRAvg},
		{path: "avg_hr", kind: models.MetricHeartRateAvg},
	},
}

var sportFields = []field{
	{path: "duration", kind: models.MetricWorkoutDurationMin, seconds: true},
	{path: "calories", kind: models.MetricWorkoutCalories},
	{path: "avg_hrm", kind: models.MetricWorkoutAvgHRM},
	{path: "train_load", kind: models.MetricWorkoutTrainLoad},
	{path: "hrm_aerobic_duration", kind: models.MetricWorkoutAerobicMin, seconds: true},
	{path: "hrm_anaerobic_duration", kind: models.MetricWorkoutAnaerobicMin, seconds: true},
	{path: "hrm_extreme_duration", kind: models.MetricWorkoutExtremeMin, seconds: true},
}

// ParseStats counts what the parser saw.
type ParseStats struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// Parse reads an export in the given format.
// Rows with a bad timestamp or JSON cell are skipped, not fatal.
func Parse(r io.Reader, format Format) ([]Record, ParseStats, error) {
	var stats ParseStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range []string{"Key", "Time", "Value"} {
		if _, ok := cols[name]; !ok {
			return nil, stats, fmt.Errorf("missing %q column", name)
		}
	}
	if _, ok := cols["Tag"]; !ok && format == FormatAggregated {
		return nil, stats, fmt.Errorf("missing %q column", "Tag")
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		if format == FormatAggregated && cell(row, "Tag") != "daily_report" {
			continue
		}

		secs, err := strconv.ParseInt(strings.TrimSpace(cell(row, "Time")), 10, 64)
		if err != nil {
			stats.Skipped++
			continue
		}
		raw := cell(row, "Value")
		if !gjson.Valid(raw) {
			stats.Skipped++
			continue
		}
		ts := time.Unix(secs, 0)

		var fields []field
		if format == FormatAggregated {
			fields = dailyFields[cell(row, "Key")]
		} else {
			fields = sportFields
		}

		value := gjson.Parse(raw)
		for _, f := range fields {
			res := value.Get(f.path)
			if !res.Exists() || res.Type != gjson.Number {
				continue
			}
			v := res.Float()
			if f.seconds {
				v /= 60
			}
			out = append(out, Record{RecordedAt: ts, Kind: f.kind, Value: v, Raw: raw})
		}
	}
	return out, stats, nil
}

// Writer stores samples. storage.Repository satisfies it.
type Writer interface {
	CreateMetric(m *models.MetricSample) error
}

// Result summarizes one import.
type Result struct {
	Format     string `json:"format"`
	Rows       int    `json:"rows"`
	Skipped    int    `json:"skipped"`
	Parsed     int    `json:"parsed"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// Importer writes parsed exports into a store.
type Importer struct {
	store Writer
	log   *logger.Logger
}

// New creates an importer. A nil logger discards output.
func New(store Writer, log *logger.Logger) *Importer {
	return &Importer{store: store, log: logger.OrNop(log)}
}

// ImportFile detects the format from the file name and imports it.
func (im *Importer) ImportFile(path string) (*Result, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return im.Import(f, format)
}

// Import parses r and stores every record. Samples already stored for the
// same (time, kind) are counted as duplicates.
func (im *Importer) Import(r io.Reader, format Format) (*Result, error) {
	records, stats, err := Parse(r, format)
	if err != nil {
		return nil, err
	}
	im.log.Debug("parsed export", "format", format.String(), "rows", stats.Rows, "records", len(records), "skipped", stats.Skipped)

	res := &Result{
		Format:  format.String(),
		Rows:    stats.Rows,
		Skipped: stats.Skipped,
		Parsed:  len(records),
	}
	for _, rec := range records {
		err := im.store.CreateMetric(rec.Sample())
		switch {
		case errors.Is(err, storage.ErrDuplicateSample):
			res.Duplicates++
		case err != nil:
			return res, fmt.Errorf("store %s at %s: %w", rec.Kind, rec.RecordedAt.Format(time.RFC3339), err)
		default:
			res.Inserted++
		}
	}

	im.log.Info("import finished", "format", res.Format, "inserted", res.Inserted, "duplicates", res.Duplicates, "skipped", res.Skipped)
	return res, nil
}
