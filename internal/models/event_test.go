// ABOUTME: Tests for Event model and KeyState enum.
// ABOUTME: Covers parsing, JSON round trip of key state, and validation.
package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseKeyState(t *testing.T) {
	tests := []struct {
		input   string
		want    KeyState
		wantErr bool
	}{
		{"Consumption", KeyStateConsumption, false},
		{"Internal friction", KeyStateInternalFriction, false},
		{"internal_friction", KeyStateInternalFriction, false},
		{"friction", KeyStateInternalFriction, false},
		{"GROWTH", KeyStateGrowth, false},
		{" Abundance ", KeyStateAbundance, false},
		{"routine", KeyStateRoutine, false},
		{"flow", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKeyState(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeyState(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKeyState(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyStateStringRoundTrip(t *testing.T) {
	for _, k := range AllKeyStates {
		got, err := ParseKeyState(k.String())
		if err != nil {
			t.Fatalf("ParseKeyState(%q) failed: %v", k.String(), err)
		}
		if got != k {
			t.Errorf("round trip %v -> %v", k, got)
		}
		if k.Description() == "" {
			t.Errorf("%v has no description", k)
		}
	}
}

func TestKeyStateJSON(t *testing.T) {
	ev := NewEvent("Deep work", 90, KeyStateInternalFriction).WithScores(5, 3, 6)

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"key_state":"Internal friction"`) {
		t.Errorf("key_state not stored as canonical text: %s", data)
	}

	var got Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.KeyState != KeyStateInternalFriction {
		t.Errorf("KeyState = %v", got.KeyState)
	}

	if err := json.Unmarshal([]byte(`{"key_state":"Bored"}`), &got); err == nil {
		t.Error("expected error for unknown key state")
	}
}

func TestEventValidate(t *testing.T) {
	valid := func() *Event {
		return NewEvent("Run", 30, KeyStateAbundance).WithScores(7, 7, 8)
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(e *Event)
	}{
		{"empty activity", func(e *Event) { e.Activity = " " }},
		{"negative duration", func(e *Event) { e.DurationMinutes = -1 }},
		{"physical zero", func(e *Event) { e.PhysicalScore = 0 }},
		{"mental eleven", func(e *Event) { e.MentalScore = 11 }},
		{"emotional zero", func(e *Event) { e.EmotionalScore = 0 }},
		{"bad key state", func(e *Event) { e.KeyState = KeyState(42) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			if err := e.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
