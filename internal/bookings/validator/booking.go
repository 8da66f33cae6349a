package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"castlehire/pkg/logger"
	"castlehire/pkg/model"
	"castlehire/pkg/timeslot"
)

// Rules carries the externally supplied business configuration. The
// validator never reads the environment itself.
type Rules struct {
	MinNoticeHours int
	MaxAdvanceDays int
	DayStart       string
	DayEnd         string
	Location       *time.Location

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// BookingValidator decides whether a candidate booking can be accepted
// against a snapshot of existing bookings. Validate is a pure function of
// its inputs; the same candidate and snapshot always produce the same
// result.
type BookingValidator struct {
	validate *validator.Validate
	rules    Rules
	logger   *logger.Logger
}

func NewBookingValidator(rules Rules, log *logger.Logger) *BookingValidator {
	if rules.Location == nil {
		panic("validator: nil location in rules")
	}

	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("valid_hire_date", validateHireDate); err != nil {
		log.Fatal("Failed to register 'valid_hire_date' validator", "error", err)
	}
	if err := v.RegisterValidation("valid_clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'valid_clock_time' validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		rules:    rules,
		logger:   log,
	}
}

func validateHireDate(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseDate(fl.Field().String())
	return err == nil
}

func validateClockTime(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseClock(fl.Field().String())
	return err == nil
}

// Validate checks the candidate against the existing set. excludeID names
// a booking to ignore so that re-validating an edit does not conflict
// with its own prior version. Field errors and conflicts are data in the
// result, never Go errors.
func (v *BookingValidator) Validate(candidate model.CandidateBooking, existing []model.ExistingBooking, excludeID string) model.ValidationResult {
	result := model.ValidationResult{
		Errors: v.fieldErrors(candidate),
	}

	candStart, candEnd, intervalErr := timeslot.Interval(
		candidate.Date, candidate.EndDate, candidate.StartTime, candidate.EndTime,
		candidate.Overnight, v.rules.Location,
	)
	if intervalErr == nil && !candEnd.After(candStart) {
		result.Errors["end_time"] = "end_time must be after start_time"
	}

	// Every field passed its own tag, so the only way the interval can
	// still fail to build is an end date earlier than the start date.
	if intervalErr != nil && len(result.Errors) == 0 {
		result.Errors["end_date"] = fmt.Sprintf("end_date %s is before date %s", candidate.EndDate, candidate.Date)
	}

	// Conflicts are only computable once the candidate's interval is.
	if intervalErr == nil && candEnd.After(candStart) {
		result.Conflicts = v.conflictScan(candidate.Castle, candStart, candEnd, existing, excludeID)
		result.Warnings = v.warnings(candidate, candStart)
	}

	result.IsValid = len(result.Errors) == 0 && len(result.Conflicts) == 0
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result
}

func (v *BookingValidator) fieldErrors(candidate model.CandidateBooking) map[string]string {
	fieldErrors := make(map[string]string)

	err := v.validate.Struct(candidate)
	if err == nil {
		return fieldErrors
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Non-struct input is a caller defect.
		panic(fmt.Sprintf("validator: unexpected input: %v", err))
	}

	for _, fieldErr := range validationErrs {
		fieldErrors[fieldErr.Field()] = translateFieldError(fieldErr)
	}
	return fieldErrors
}

func translateFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", err.Field())
	case "valid_hire_date":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", err.Field())
	case "valid_clock_time":
		return fmt.Sprintf("%s must be a valid time (HH:MM)", err.Field())
	default:
		return err.Error()
	}
}

// Conflicts runs only the conflict scan for a castle and window, without
// field validation. Used by availability checks where there is no
// customer yet.
func (v *BookingValidator) Conflicts(castle, date, startTime, endTime string, overnight bool, existing []model.ExistingBooking, excludeID string) ([]model.Conflict, error) {
	start, end, err := timeslot.Interval(date, "", startTime, endTime, overnight, v.rules.Location)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end %s not after start %s", timeslot.ErrMalformed, endTime, startTime)
	}
	return v.conflictScan(castle, start, end, existing, excludeID), nil
}

// conflictScan reports every active same-castle booking whose interval
// overlaps the candidate's. Pre-existing overlaps inside the existing set
// are evaluated independently, never merged or repaired.
func (v *BookingValidator) conflictScan(castle string, candStart, candEnd time.Time, existing []model.ExistingBooking, excludeID string) []model.Conflict {
	var conflicts []model.Conflict

	for _, other := range existing {
		if !other.IsActive() {
			continue
		}
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if !sameCastle(castle, other.Castle) {
			continue
		}

		otherStart, otherEnd, ok := v.intervalOf(other)
		if !ok {
			// Malformed snapshot entries cannot be compared; the adapter
			// already degraded them as far as it could.
			continue
		}

		if timeslot.Overlaps(candStart, candEnd, otherStart, otherEnd) {
			conflicts = append(conflicts, model.Conflict{
				Type:      model.ConflictSameCastle,
				BookingID: other.ID,
				Castle:    other.Castle,
				Date:      other.Date,
				StartTime: other.StartTime,
				EndTime:   other.EndTime,
				Message: fmt.Sprintf("%s is already booked on %s from %s to %s (booking %s)",
					other.Castle, other.Date, other.StartTime, other.EndTime, other.ID),
			})
		}
	}

	return conflicts
}

// sameCastle compares castle identifiers case-insensitively, ignoring
// surrounding whitespace. An empty name never matches anything.
func sameCastle(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func (v *BookingValidator) intervalOf(b model.ExistingBooking) (time.Time, time.Time, bool) {
	start, end := b.StartTime, b.EndTime
	if start == "" || end == "" {
		start, end = timeslot.DefaultWindow(v.rules.DayStart, v.rules.DayEnd)
	}

	startAt, endAt, err := timeslot.Interval(b.Date, b.EndDate, start, end, b.Overnight, v.rules.Location)
	if err != nil || !endAt.After(startAt) {
		return time.Time{}, time.Time{}, false
	}
	return startAt, endAt, true
}

func (v *BookingValidator) warnings(candidate model.CandidateBooking, candStart time.Time) []model.Warning {
	var warnings []model.Warning
	now := v.rules.now()

	if v.rules.MinNoticeHours > 0 {
		notice := time.Duration(v.rules.MinNoticeHours) * time.Hour
		if candStart.Before(now.Add(notice)) {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnShortNotice,
				Message: fmt.Sprintf("booking starts less than %d hours from now", v.rules.MinNoticeHours),
			})
		}
	}

	if v.rules.MaxAdvanceDays > 0 {
		horizon := now.AddDate(0, 0, v.rules.MaxAdvanceDays)
		if candStart.After(horizon) {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnFarAdvance,
				Message: fmt.Sprintf("booking is more than %d days in advance", v.rules.MaxAdvanceDays),
			})
		}
	}

	if w := v.outsideHours(candidate); w != nil {
		warnings = append(warnings, *w)
	}

	return warnings
}

func (v *BookingValidator) outsideHours(candidate model.CandidateBooking) *model.Warning {
	dayStart, dayEnd := timeslot.DefaultWindow(v.rules.DayStart, v.rules.DayEnd)

	openClock, err := timeslot.ParseClock(dayStart)
	if err != nil {
		return nil
	}
	closeClock, err := timeslot.ParseClock(dayEnd)
	if err != nil {
		return nil
	}
	startClock, err := timeslot.ParseClock(candidate.StartTime)
	if err != nil {
		return nil
	}
	endClock, err := timeslot.ParseClock(candidate.EndTime)
	if err != nil {
		return nil
	}

	outside := startClock < openClock || endClock > closeClock
	if candidate.Overnight {
		// An overnight hire necessarily runs past closing; only flag an
		// early start.
		outside = startClock < openClock
	}
	if !outside {
		return nil
	}

	return &model.Warning{
		Code:    model.WarnOutsideHours,
		Message: fmt.Sprintf("requested window falls outside usual hire hours (%s-%s)", dayStart, dayEnd),
	}
}
