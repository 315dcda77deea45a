// ABOUTME: Export and import of all energy data for backups and migration.
// ABOUTME: Supports JSON (round-trippable) and YAML (grouped, human-readable).
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/energy/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current backup file format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for energy data.
type ExportData struct {
	Version    string                 `json:"version" yaml:"version"`
	ExportedAt time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool       string                 `json:"tool" yaml:"tool"`
	Metrics    []*models.MetricSample `json:"metrics" yaml:"metrics"`
	Goals      []*models.Goal         `json:"goals" yaml:"goals"`
	Events     []*models.Event        `json:"events" yaml:"events"`
}

// ImportSummary counts what an import wrote and skipped.
type ImportSummary struct {
	Metrics        int `json:"metrics"`
	Goals          int `json:"goals"`
	Events         int `json:"events"`
	SkippedMetrics int `json:"skipped_metrics"`
	SkippedGoals   int `json:"skipped_goals"`
}

// CollectAll gathers every record from r into an ExportData.
func CollectAll(r Repository) (*ExportData, error) {
	metrics, err := r.ListMetrics(MetricFilter{})
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	goals, err := r.ListGoals(true)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	events, err := r.ListEvents(EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "energy",
		Metrics:    metrics,
		Goals:      goals,
		Events:     events,
	}, nil
}

// RestoreAll writes data into r. Goals go first so events can reference them.
// Duplicate samples and goal names already present are skipped, not failed.
func RestoreAll(r Repository, data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	for _, g := range data.Goals {
		if err := r.CreateGoal(g); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				summary.SkippedGoals++
				continue
			}
			return summary, fmt.Errorf("import goal %s: %w", g.ID, err)
		}
		summary.Goals++
	}

	for _, m := range data.Metrics {
		if err := r.CreateMetric(m); err != nil {
			if errors.Is(err, ErrDuplicateSample) {
				summary.SkippedMetrics++
				continue
			}
			return summary, fmt.Errorf("import metric %s: %w", m.ID, err)
		}
		summary.Metrics++
	}

	for _, e := range data.Events {
		if err := r.CreateEvent(e); err != nil {
			return summary, fmt.Errorf("import event %s: %w", e.ID, err)
		}
		summary.Events++
	}

	return summary, nil
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectAll(d)
}

// ImportData imports data from an export file.
func (d *DB) ImportData(data *ExportData) (*ImportSummary, error) {
	return RestoreAll(d, data)
}

// ExportJSON serializes all data in r as indented JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ImportJSON parses a JSON backup and restores it into r.
func ImportJSON(r Repository, raw []byte) (*ImportSummary, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(&data)
}

// ExportYAML serializes all data in r as YAML with metrics grouped by kind.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                  `yaml:"version"`
		ExportedAt string                  `yaml:"exported_at"`
		Tool       string                  `yaml:"tool"`
		Metrics    map[string][]yamlMetric `yaml:"metrics"`
		Goals      []yamlGoal              `yaml:"goals"`
		Events     []yamlEvent             `yaml:"events"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Metrics:    make(map[string][]yamlMetric),
		Goals:      make([]yamlGoal, 0, len(data.Goals)),
		Events:     make([]yamlEvent, 0, len(data.Events)),
	}

	for _, m := range data.Metrics {
		k := string(m.Kind)
		yamlData.Metrics[k] = append(yamlData.Metrics[k], yamlMetric{
			ID:         m.ID.String()[:8],
			Value:      m.Value,
			Unit:       m.Unit(),
			RecordedAt: m.RecordedAt.Format(time.RFC3339),
			Source:     m.Source,
		})
	}

	for _, g := range data.Goals {
		yamlData.Goals = append(yamlData.Goals, yamlGoal{
			ID:         g.ShortID(),
			Name:       g.Name,
			Priority:   int(g.Priority),
			EnergyCost: g.EnergyCost,
			Active:     g.Active,
		})
	}

	for _, e := range data.Events {
		ye := yamlEvent{
			ID:              e.ID.String()[:8],
			StartedAt:       e.StartedAt.Format(time.RFC3339),
			Activity:        e.Activity,
			DurationMinutes: e.DurationMinutes,
			KeyState:        e.KeyState.String(),
			Scores:          [3]int{e.PhysicalScore, e.MentalScore, e.EmotionalScore},
			Notes:           e.Notes,
		}
		if e.GoalID != nil {
			ye.GoalID = e.GoalID.String()[:8]
		}
		yamlData.Events = append(yamlData.Events, ye)
	}

	return yaml.Marshal(yamlData)
}

type yamlMetric struct {
	ID         string  `yaml:"id"`
	Value      float64 `yaml:"value"`
	Unit       string  `yaml:"unit"`
	RecordedAt string  `yaml:"recorded_at"`
	Source     string  `yaml:"source"`
}

type yamlGoal struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Priority   int    `yaml:"priority"`
	EnergyCost int    `yaml:"energy_cost"`
	Active     bool   `yaml:"active"`
}

type yamlEvent struct {
	ID              string `yaml:"id"`
	StartedAt       string `yaml:"started_at"`
	Activity        string `yaml:"activity"`
	DurationMinutes int    `yaml:"duration_minutes"`
	KeyState        string `yaml:"key_state"`
	GoalID          string `yaml:"goal_id,omitempty"`
	Scores          [3]int `yaml:"scores,flow"`
	Notes           string `yaml:"notes,omitempty"`
}
