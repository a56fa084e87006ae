package date

import (
	"encoding/json"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, 7, 1)},
		{in: "2025-7-1", want: New(2025, 7, 1)},
		{in: "2024-02-30", wantErr: true},
		{in: "July 1st", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_Normalizes(t *testing.T) {
	if got, want := New(2025, 1, 32), New(2025, 2, 1); got != want {
		t.Errorf("New(2025, 1, 32) = %v, want %v", got, want)
	}
	if got := New(2025, 3, 1).DaysSince(New(2025, 2, 1)); got != 28 {
		t.Errorf("DaysSince() = %d, want 28", got)
	}
}

func TestJSON(t *testing.T) {
	type doc struct {
		Added Date `json:"added"`
	}
	b, err := json.Marshal(doc{Added: New(2025, 10, 19)})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"added":"2025-10-19"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	var d doc
	if err := json.Unmarshal([]byte(`{"added":""}`), &d); err != nil {
		t.Fatal(err)
	}
	if !d.Added.IsZero() {
		t.Errorf("empty date should decode as zero, got %v", d.Added)
	}
}
