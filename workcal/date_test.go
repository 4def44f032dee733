package workcal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(NewDate(2024, time.July, 1)) {
		t.Fatalf("expected 2024-07-01, got %s", d)
	}

	d, err = ParseDate("2024-07-01T15:04:05Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(NewDate(2024, time.July, 1)) {
		t.Fatalf("expected 2024-07-01 from RFC3339, got %s", d)
	}

	if _, err := ParseDate("01.07.2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestAddDaysBoundaries(t *testing.T) {
	d := NewDate(2024, time.December, 31).AddDays(1)
	if !d.Equal(NewDate(2025, time.January, 1)) {
		t.Fatalf("expected 2025-01-01, got %s", d)
	}

	d = NewDate(2024, time.March, 1).AddDays(-1)
	if !d.Equal(NewDate(2024, time.February, 29)) {
		t.Fatalf("expected leap day, got %s", d)
	}
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Start Date `json:"start"`
	}

	raw, err := json.Marshal(payload{Start: NewDate(2024, time.August, 5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"start":"2024-08-05"}` {
		t.Fatalf("unexpected json: %s", raw)
	}

	var decoded payload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.Start.Equal(NewDate(2024, time.August, 5)) {
		t.Fatalf("round trip mismatch: %s", decoded.Start)
	}
}
