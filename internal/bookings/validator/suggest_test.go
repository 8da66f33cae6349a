package validator

import (
	"testing"

	"castlehire/pkg/model"
)

func TestSuggestAlternatives(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name       string
		existing   []model.ExistingBooking
		windowDays int
		max        int
		wantDates  []string
	}{
		{
			name: "later date wins the distance tie",
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "17:00", model.StatusConfirmed),
			},
			windowDays: 2,
			max:        4,
			wantDates:  []string{"2024-07-05", "2024-07-03", "2024-07-06", "2024-07-02"},
		},
		{
			name: "occupied neighbours are skipped",
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "17:00", model.StatusConfirmed),
				existingBooking("b2", "Jungle Adventure", "2024-07-05", "09:00", "17:00", model.StatusConfirmed),
				existingBooking("b3", "Jungle Adventure", "2024-07-03", "09:00", "17:00", model.StatusConfirmed),
			},
			windowDays: 2,
			max:        2,
			wantDates:  []string{"2024-07-06", "2024-07-02"},
		},
		{
			name: "max suggestions caps the result",
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "17:00", model.StatusConfirmed),
			},
			windowDays: 14,
			max:        3,
			wantDates:  []string{"2024-07-05", "2024-07-03", "2024-07-06"},
		},
		{
			name: "fully booked window yields empty result",
			existing: func() []model.ExistingBooking {
				set := []model.ExistingBooking{}
				dates := []string{"2024-07-02", "2024-07-03", "2024-07-04", "2024-07-05", "2024-07-06"}
				for i, d := range dates {
					set = append(set, existingBooking(
						"b"+string(rune('0'+i)), "Jungle Adventure", d, "09:00", "17:00", model.StatusConfirmed))
				}
				return set
			}(),
			windowDays: 2,
			max:        5,
			wantDates:  []string{},
		},
		{
			name: "cancelled bookings do not block suggestions",
			existing: []model.ExistingBooking{
				existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "17:00", model.StatusConfirmed),
				existingBooking("b2", "Jungle Adventure", "2024-07-05", "09:00", "17:00", model.StatusCancelled),
			},
			windowDays: 1,
			max:        2,
			wantDates:  []string{"2024-07-05", "2024-07-03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := validCandidate()

			got := v.SuggestAlternatives(candidate, tt.existing, tt.windowDays, tt.max)

			if len(got) != len(tt.wantDates) {
				t.Fatalf("got %d suggestions, want %d: %+v", len(got), len(tt.wantDates), got)
			}
			for i, slot := range got {
				if slot.Date != tt.wantDates[i] {
					t.Errorf("suggestion %d: date = %s, want %s", i, slot.Date, tt.wantDates[i])
				}
				if slot.StartTime != candidate.StartTime || slot.EndTime != candidate.EndTime {
					t.Errorf("suggestion %d: window %s-%s, want %s-%s",
						i, slot.StartTime, slot.EndTime, candidate.StartTime, candidate.EndTime)
				}
			}
		})
	}
}

// The worked example: a confirmed all-day hire blocks the requested slot,
// but an adjacent free day is suggested.
func TestConflictWithSuggestionScenario(t *testing.T) {
	v := testValidator(t)

	existing := []model.ExistingBooking{
		existingBooking("b1", "Jungle Adventure", "2024-07-04", "09:00", "17:00", model.StatusConfirmed),
	}
	candidate := validCandidate()

	result := v.Validate(candidate, existing, "")
	if result.IsValid {
		t.Fatal("expected the candidate to be rejected")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(result.Conflicts))
	}
	if result.Conflicts[0].BookingID != "b1" {
		t.Errorf("conflict names booking %q, want b1", result.Conflicts[0].BookingID)
	}

	suggestions := v.SuggestAlternatives(candidate, existing, 7, 5)
	if len(suggestions) == 0 {
		t.Fatal("expected at least one alternative slot in a free week")
	}
	for _, slot := range suggestions {
		if slot.Date == candidate.Date {
			t.Errorf("suggested the conflicting date %s", slot.Date)
		}
	}
}

func TestSuggestAlternativesDegenerateInputs(t *testing.T) {
	v := testValidator(t)
	candidate := validCandidate()

	if got := v.SuggestAlternatives(candidate, nil, 0, 5); got != nil {
		t.Errorf("zero window: got %+v, want nil", got)
	}
	if got := v.SuggestAlternatives(candidate, nil, 7, 0); got != nil {
		t.Errorf("zero max: got %+v, want nil", got)
	}

	candidate.Date = "garbage"
	if got := v.SuggestAlternatives(candidate, nil, 7, 5); got != nil {
		t.Errorf("bad date: got %+v, want nil", got)
	}
}
