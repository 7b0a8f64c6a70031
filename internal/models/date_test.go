package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid date", input: "2024-09-01", want: "2024-09-01"},
		{name: "surrounding whitespace", input: "  2024-09-01  ", want: "2024-09-01"},
		{name: "wrong format", input: "01/09/2024", wantErr: true},
		{name: "not a date", input: "yesterday", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if date.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, date.String())
			}
		})
	}
}

func TestDate_Comparisons(t *testing.T) {
	early, _ := ParseDate("2024-01-01")
	late, _ := ParseDate("2024-12-31")

	if !early.Before(late) {
		t.Error("Expected early before late")
	}
	if !late.After(early) {
		t.Error("Expected late after early")
	}
	if early.After(early) || early.Before(early) {
		t.Error("A date is neither before nor after itself")
	}

	same, _ := ParseDate("2024-01-01")
	if !early.Equal(same) {
		t.Error("Expected equal dates")
	}
}

func TestNewDate_DropsTimeOfDay(t *testing.T) {
	stamp := time.Date(2024, 9, 1, 23, 59, 58, 0, time.UTC)
	date := NewDate(stamp)

	if date.String() != "2024-09-01" {
		t.Errorf("Expected 2024-09-01, got %s", date.String())
	}
	if h, m, s := date.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("Expected midnight, got %02d:%02d:%02d", h, m, s)
	}
}

func TestDate_JSON(t *testing.T) {
	date, _ := ParseDate("2024-09-01")

	data, err := json.Marshal(date)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2024-09-01"` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var decoded Date
	if err := json.Unmarshal([]byte(`"2024-10-15"`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.String() != "2024-10-15" {
		t.Errorf("Expected 2024-10-15, got %s", decoded.String())
	}

	if err := json.Unmarshal([]byte(`"not-a-date"`), &decoded); err == nil {
		t.Error("Expected error for malformed date")
	}

	if err := json.Unmarshal([]byte(`null`), &decoded); err != nil {
		t.Fatalf("Unmarshal null failed: %v", err)
	}
	if !decoded.IsZero() {
		t.Error("Expected zero date for null")
	}
}

func TestDate_SQLRoundTrip(t *testing.T) {
	date, _ := ParseDate("2024-09-01")

	value, err := date.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != "2024-09-01" {
		t.Errorf("Unexpected driver value: %v", value)
	}

	var scanned Date
	if err := scanned.Scan(time.Date(2024, 9, 1, 13, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan time.Time failed: %v", err)
	}
	if !scanned.Equal(date) {
		t.Errorf("Expected %s, got %s", date, scanned)
	}

	if err := scanned.Scan([]byte("2024-10-15")); err != nil {
		t.Fatalf("Scan []byte failed: %v", err)
	}
	if scanned.String() != "2024-10-15" {
		t.Errorf("Expected 2024-10-15, got %s", scanned)
	}

	if err := scanned.Scan(nil); err != nil {
		t.Fatalf("Scan nil failed: %v", err)
	}
	if !scanned.IsZero() {
		t.Error("Expected zero date after scanning nil")
	}

	zero := Date{}
	value, err = zero.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if value != nil {
		t.Errorf("Zero date should store NULL, got %v", value)
	}

	if err := scanned.Scan(42); err == nil {
		t.Error("Expected error scanning unsupported type")
	}
}
