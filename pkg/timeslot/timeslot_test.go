package timeslot

import (
	"errors"
	"testing"
	"time"
)

var london, _ = time.LoadLocation("Europe/London")

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{name: "plain", input: "09:30", want: 9*60 + 30},
		{name: "no leading zero", input: "9:00", want: 9 * 60},
		{name: "midnight", input: "00:00", want: 0},
		{name: "end of day", input: "23:59", want: 23*60 + 59},
		{name: "trims whitespace", input: " 14:00 ", want: 14 * 60},
		{name: "out of range hour", input: "25:00", wantErr: true},
		{name: "garbage", input: "noonish", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error should wrap ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClockString(t *testing.T) {
	if got := Clock(9*60 + 5).String(); got != "09:05" {
		t.Errorf("Clock.String() = %q, want %q", got, "09:05")
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		endDate   string
		start     string
		end       string
		overnight bool
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{
			name: "same day",
			date: "2024-06-01", start: "10:00", end: "16:00",
			wantStart: "2024-06-01T10:00", wantEnd: "2024-06-01T16:00",
		},
		{
			name: "overnight crosses midnight",
			date: "2024-06-01", start: "15:00", end: "10:00", overnight: true,
			wantStart: "2024-06-01T15:00", wantEnd: "2024-06-02T10:00",
		},
		{
			name: "multi-day hire",
			date: "2024-06-01", endDate: "2024-06-03", start: "09:00", end: "18:00",
			wantStart: "2024-06-01T09:00", wantEnd: "2024-06-03T18:00",
		},
		{
			name: "end date before start date",
			date: "2024-06-03", endDate: "2024-06-01", start: "09:00", end: "18:00",
			wantErr: true,
		},
		{
			name: "bad date",
			date: "01/06/2024", start: "09:00", end: "18:00",
			wantErr: true,
		},
		{
			name: "bad start time",
			date: "2024-06-01", start: "late morning", end: "18:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Interval(tt.date, tt.endDate, tt.start, tt.end, tt.overnight, london)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error should wrap ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			const layout = "2006-01-02T15:04"
			if got := start.Format(layout); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format(layout); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			if start.Location() != london {
				t.Errorf("interval not in business timezone: %v", start.Location())
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2024, 7, 4, h, m, 0, 0, london)
	}

	tests := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{name: "contained", aStart: day(9, 0), aEnd: day(17, 0), bStart: day(12, 0), bEnd: day(15, 0), want: true},
		{name: "partial tail", aStart: day(10, 0), aEnd: day(16, 0), bStart: day(15, 0), bEnd: day(18, 0), want: true},
		{name: "identical", aStart: day(10, 0), aEnd: day(14, 0), bStart: day(10, 0), bEnd: day(14, 0), want: true},
		{name: "touching boundary is not overlap", aStart: day(10, 0), aEnd: day(14, 0), bStart: day(14, 0), bEnd: day(18, 0), want: false},
		{name: "disjoint", aStart: day(8, 0), aEnd: day(9, 0), bStart: day(14, 0), bEnd: day(18, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}
