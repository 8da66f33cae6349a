package validator

import (
	"castlehire/pkg/model"
	"castlehire/pkg/timeslot"
)

// SuggestAlternatives scans up to windowDays either side of the requested
// date for a free slot with the same castle and time window. Results are
// ordered by distance from the requested date, with later dates winning
// ties. An empty result is a valid outcome.
func (v *BookingValidator) SuggestAlternatives(candidate model.CandidateBooking, existing []model.ExistingBooking, windowDays, maxSuggestions int) []model.Slot {
	if windowDays <= 0 || maxSuggestions <= 0 {
		return nil
	}

	day, err := timeslot.ParseDate(candidate.Date)
	if err != nil {
		return nil
	}

	suggestions := make([]model.Slot, 0, maxSuggestions)

	for distance := 1; distance <= windowDays; distance++ {
		for _, offset := range []int{distance, -distance} {
			date := day.AddDate(0, 0, offset).Format(timeslot.DateLayout)

			slotStart, slotEnd, err := timeslot.Interval(
				date, "", candidate.StartTime, candidate.EndTime,
				candidate.Overnight, v.rules.Location,
			)
			if err != nil || !slotEnd.After(slotStart) {
				continue
			}

			if len(v.conflictScan(candidate.Castle, slotStart, slotEnd, existing, "")) > 0 {
				continue
			}

			suggestions = append(suggestions, model.Slot{
				Date:      date,
				StartTime: candidate.StartTime,
				EndTime:   candidate.EndTime,
			})
			if len(suggestions) == maxSuggestions {
				return suggestions
			}
		}
	}

	return suggestions
}
