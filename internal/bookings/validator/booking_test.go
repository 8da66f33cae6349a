package validator

import (
	"testing"
	"time"

	"castlehire/pkg/logger"
	"castlehire/pkg/model"
)

func testRules(t *testing.T) Rules {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return Rules{
		MinNoticeHours: 48,
		MaxAdvanceDays: 365,
		DayStart:       "09:00",
		DayEnd:         "18:00",
		Location:       loc,
		Now: func() time.Time {
			return time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
		},
	}
}

func testValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return NewBookingValidator(testRules(t), log)
}

func validCandidate() model.CandidateBooking {
	return model.CandidateBooking{
		CustomerName:  "Amy Pond",
		CustomerEmail: "amy@example.com",
		CustomerPhone: "07700900123",
		Address:       "12 Leadworth Lane, Bristol",
		Date:          "2024-07-04",
		StartTime:     "12:00",
		EndTime:       "15:00",
		Castle:        "Jungle Adventure",
	}
}

func existingBooking(id, castle, date, start, end, status string) model.ExistingBooking {
	return model.ExistingBooking{
		ID:        id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Castle:    castle,
		Status:    status,
		Source:    model.SourceDatabase,
	}
}

func TestValidateConflicts(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name          string
		candidate     model.CandidateBooking
		existing      []model.ExistingBooking
		excludeID     string
		wantValid     bool
		wantConflicts int
	}{
		{
			name: "overlapping same castle conflicts",
			candidate: func() model.CandidateBooking {
				c := validCandidate()
				c.Castle = "Princess Castle"
				c.Date = "2024-06-01"
				c.StartTime = "15:00"
				c.EndTime = "18:00"
				return c
			}(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Princess Castle", "2024-06-01", "10:00", "16:00", model.StatusConfirmed),
			},
			wantValid:     false,
			wantConflicts: 1,
		},
		{
			name: "touching boundaries do not conflict",
			candidate: func() model.CandidateBooking {
				c := validCandidate()
				c.Date = "2024-06-01"
				c.StartTime = "14:00"
				c.EndTime = "18:00"
				return c
			}(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-06-01", "10:00", "14:00", model.StatusConfirmed),
			},
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name:      "different castle same slot no conflict",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Princess Castle", "2024-07-04", "12:00", "15:00", model.StatusConfirmed),
			},
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name:      "cancelled booking never blocks",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "12:00", "15:00", model.StatusCancelled),
			},
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name:      "expired booking never blocks",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "12:00", "15:00", model.StatusExpired),
			},
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name:      "excluded id does not conflict with itself",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("7", "Jungle Adventure", "2024-07-04", "12:00", "15:00", model.StatusConfirmed),
			},
			excludeID:     "7",
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name:      "exclusion still reports other overlaps",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("7", "Jungle Adventure", "2024-07-04", "12:00", "15:00", model.StatusConfirmed),
				existingBooking("8", "Jungle Adventure", "2024-07-04", "13:00", "16:00", model.StatusConfirmed),
			},
			excludeID:     "7",
			wantValid:     false,
			wantConflicts: 1,
		},
		{
			name:      "castle comparison ignores case and whitespace",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "  jungle adventure ", "2024-07-04", "12:00", "15:00", model.StatusConfirmed),
			},
			wantValid:     false,
			wantConflicts: 1,
		},
		{
			name:      "empty castle name never matches",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "", "2024-07-04", "12:00", "15:00", model.StatusConfirmed),
			},
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name:      "malformed existing entry is skipped",
			candidate: validCandidate(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "not-a-date", "12:00", "15:00", model.StatusConfirmed),
			},
			wantValid:     true,
			wantConflicts: 0,
		},
		{
			name: "entry crossing midnight still blocks the evening",
			candidate: func() model.CandidateBooking {
				c := validCandidate()
				c.StartTime = "20:00"
				c.EndTime = "22:00"
				return c
			}(),
			existing: []model.ExistingBooking{{
				ID:        "ev1",
				Date:      "2024-07-04",
				EndDate:   "2024-07-05",
				StartTime: "10:00",
				EndTime:   "02:00",
				Castle:    "Jungle Adventure",
				Status:    model.StatusConfirmed,
				Source:    model.SourceCalendar,
			}},
			wantValid:     false,
			wantConflicts: 1,
		},
		{
			name: "pre-existing overlaps evaluated independently",
			candidate: func() model.CandidateBooking {
				c := validCandidate()
				c.StartTime = "10:00"
				c.EndTime = "16:00"
				return c
			}(),
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "12:00", model.StatusConfirmed),
				existingBooking("b2", "Jungle Adventure", "2024-07-04", "11:00", "14:00", model.StatusConfirmed),
			},
			wantValid:     false,
			wantConflicts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.candidate, tt.existing, tt.excludeID)

			if result.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors=%v conflicts=%v)",
					result.IsValid, tt.wantValid, result.Errors, result.Conflicts)
			}
			if len(result.Conflicts) != tt.wantConflicts {
				t.Errorf("got %d conflicts, want %d: %+v", len(result.Conflicts), tt.wantConflicts, result.Conflicts)
			}
			for _, c := range result.Conflicts {
				if c.Type != model.ConflictSameCastle {
					t.Errorf("conflict type = %q, want %q", c.Type, model.ConflictSameCastle)
				}
				if c.BookingID == "" {
					t.Error("conflict does not name the colliding booking")
				}
			}
		})
	}
}

func TestValidateFieldErrors(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name       string
		mutate     func(*model.CandidateBooking)
		wantFields []string
	}{
		{
			name:       "missing name",
			mutate:     func(c *model.CandidateBooking) { c.CustomerName = "" },
			wantFields: []string{"customer_name"},
		},
		{
			name:       "malformed email",
			mutate:     func(c *model.CandidateBooking) { c.CustomerEmail = "not-an-email" },
			wantFields: []string{"customer_email"},
		},
		{
			name: "missing phone and bad email reported together",
			mutate: func(c *model.CandidateBooking) {
				c.CustomerPhone = ""
				c.CustomerEmail = "nope"
			},
			wantFields: []string{"customer_phone", "customer_email"},
		},
		{
			name:       "missing address",
			mutate:     func(c *model.CandidateBooking) { c.Address = "" },
			wantFields: []string{"address"},
		},
		{
			name:       "malformed date",
			mutate:     func(c *model.CandidateBooking) { c.Date = "04/07/2024" },
			wantFields: []string{"date"},
		},
		{
			name:       "malformed start time",
			mutate:     func(c *model.CandidateBooking) { c.StartTime = "noonish" },
			wantFields: []string{"start_time"},
		},
		{
			name: "inverted times",
			mutate: func(c *model.CandidateBooking) {
				c.StartTime = "15:00"
				c.EndTime = "12:00"
			},
			wantFields: []string{"end_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()
			tt.mutate(&candidate)

			result := v.Validate(candidate, nil, "")

			if result.IsValid {
				t.Fatal("IsValid = true, want false")
			}
			for _, field := range tt.wantFields {
				if _, ok := result.Errors[field]; !ok {
					t.Errorf("missing error for field %q, got %v", field, result.Errors)
				}
			}
		})
	}
}

func TestValidateOvernightSpansNextDay(t *testing.T) {
	v := testValidator(t)

	candidate := validCandidate()
	candidate.StartTime = "16:00"
	candidate.EndTime = "10:00"
	candidate.Overnight = true

	// The overnight hire runs into 2024-07-05 morning.
	existing := []model.ExistingBooking{
		existingBooking("b1", "Jungle Adventure", "2024-07-05", "09:00", "12:00", model.StatusConfirmed),
	}

	result := v.Validate(candidate, existing, "")
	if result.IsValid {
		t.Fatalf("expected conflict with next-day booking, got %+v", result)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(result.Conflicts))
	}
}

func TestValidateMultiDayExistingBlocksMidHire(t *testing.T) {
	v := testValidator(t)

	// The hire runs 2024-07-03 10:00 through 2024-07-06 14:00; a
	// candidate on an intermediate day must still collide.
	existing := []model.ExistingBooking{{
		ID:        "b1",
		Date:      "2024-07-03",
		EndDate:   "2024-07-06",
		StartTime: "10:00",
		EndTime:   "14:00",
		Castle:    "Jungle Adventure",
		Status:    model.StatusConfirmed,
		Source:    model.SourceDatabase,
	}}

	result := v.Validate(validCandidate(), existing, "")
	if result.IsValid {
		t.Fatalf("candidate inside a multi-day hire validated clean: %+v", result)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %+v", len(result.Conflicts), result.Conflicts)
	}
}

func TestValidateOvernightExistingBlocksNextMorning(t *testing.T) {
	v := testValidator(t)

	existing := []model.ExistingBooking{{
		ID:        "b1",
		Date:      "2024-07-03",
		StartTime: "16:00",
		EndTime:   "10:00",
		Overnight: true,
		Castle:    "Jungle Adventure",
		Status:    model.StatusConfirmed,
		Source:    model.SourceDatabase,
	}}

	candidate := validCandidate()
	candidate.StartTime = "09:00"
	candidate.EndTime = "12:00"

	result := v.Validate(candidate, existing, "")
	if result.IsValid {
		t.Fatalf("expected conflict with the overnight hire's morning, got %+v", result)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %+v", len(result.Conflicts), result.Conflicts)
	}
}

func TestValidateEndDateBeforeStartIsRejected(t *testing.T) {
	v := testValidator(t)

	// Both dates are well formed on their own; only together are they
	// nonsense, so the interval failure must surface as a field error.
	candidate := validCandidate()
	candidate.EndDate = "2024-07-01"

	existing := []model.ExistingBooking{
		existingBooking("b1", "Jungle Adventure", "2024-07-04", "12:00", "15:00", model.StatusConfirmed),
	}

	result := v.Validate(candidate, existing, "")
	if result.IsValid {
		t.Fatalf("inverted end_date validated clean: %+v", result)
	}
	if _, ok := result.Errors["end_date"]; !ok {
		t.Errorf("missing end_date error, got %v", result.Errors)
	}
}

func TestValidateWarningsNeverBlock(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name     string
		mutate   func(*model.CandidateBooking)
		wantCode string
	}{
		{
			name: "short notice",
			mutate: func(c *model.CandidateBooking) {
				c.Date = "2024-06-02" // next day, inside 48h notice
			},
			wantCode: model.WarnShortNotice,
		},
		{
			name: "far advance",
			mutate: func(c *model.CandidateBooking) {
				c.Date = "2026-01-01"
			},
			wantCode: model.WarnFarAdvance,
		},
		{
			name: "outside hire hours",
			mutate: func(c *model.CandidateBooking) {
				c.StartTime = "07:00"
				c.EndTime = "10:00"
			},
			wantCode: model.WarnOutsideHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()
			tt.mutate(&candidate)

			result := v.Validate(candidate, nil, "")

			if !result.IsValid {
				t.Errorf("warnings must not block: IsValid = false (errors=%v conflicts=%v)",
					result.Errors, result.Conflicts)
			}

			found := false
			for _, w := range result.Warnings {
				if w.Code == tt.wantCode {
					found = true
				}
			}
			if !found {
				t.Errorf("missing warning %q, got %+v", tt.wantCode, result.Warnings)
			}
		})
	}
}

func TestValidatePurity(t *testing.T) {
	v := testValidator(t)

	candidate := validCandidate()
	existing := []model.ExistingBooking{
		existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "17:00", model.StatusConfirmed),
	}

	first := v.Validate(candidate, existing, "")
	second := v.Validate(candidate, existing, "")

	if first.IsValid != second.IsValid || len(first.Conflicts) != len(second.Conflicts) {
		t.Errorf("repeated validation diverged: %+v vs %+v", first, second)
	}
	if existing[0].Status != model.StatusConfirmed {
		t.Error("validator mutated the existing set")
	}
}
