package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"castlehire/internal/bookings/adapter"
	bookingserrors "castlehire/internal/bookings/errors"
	"castlehire/internal/bookings/repository"
	"castlehire/internal/bookings/validator"
	"castlehire/pkg/client"
	"castlehire/pkg/config"
	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/kafka"
	"castlehire/pkg/model"
	"castlehire/pkg/pricing"
	"castlehire/pkg/sanitizer"
	"castlehire/pkg/sealer"
	"castlehire/pkg/servicearea"
	"castlehire/pkg/timeslot"

	"go.mongodb.org/mongo-driver/mongo"
)

// CalendarAPI is the slice of the calendar collaborator the booking
// service needs. Nil means no calendar is configured; bookings then
// validate against the database alone.
type CalendarAPI interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]client.CalendarEvent, error)
	CreateEvent(ctx context.Context, event client.CalendarEvent) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// PaymentsAPI verifies charges referenced by payment webhooks.
type PaymentsAPI interface {
	GetCharge(ctx context.Context, chargeID string) (*client.Charge, error)
}

// EventPublisher publishes booking lifecycle events. Satisfied by
// *kafka.Producer.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// AvailabilityResult answers the availability check for one castle and
// window.
type AvailabilityResult struct {
	Castle      string           `json:"castle"`
	Date        string           `json:"date"`
	StartTime   string           `json:"start_time"`
	EndTime     string           `json:"end_time"`
	Available   bool             `json:"available"`
	Conflicts   []model.Conflict `json:"conflicts,omitempty"`
	Suggestions []model.Slot     `json:"suggestions,omitempty"`
}

// QuoteRequest is a priced-but-unsaved hire enquiry.
type QuoteRequest struct {
	Castle    string           `json:"castle" validate:"required"`
	Date      string           `json:"date" validate:"required"`
	EndDate   string           `json:"end_date,omitempty"`
	Overnight bool             `json:"overnight"`
	Postcode  string           `json:"postcode,omitempty"`
	Extras    []model.CostLine `json:"extras,omitempty"`
}

type BookingService interface {
	Create(ctx context.Context, candidate model.CandidateBooking) (*model.Booking, *model.ValidationResult, error)
	Validate(ctx context.Context, candidate model.CandidateBooking, excludeID string) (*model.ValidationResult, error)
	Availability(ctx context.Context, castle, date, startTime, endTime string) (*AvailabilityResult, error)
	Quote(ctx context.Context, req QuoteRequest) (*pricing.Breakdown, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, castle, status, fromDate, toDate string, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, *model.ValidationResult, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) error
	GetByManageToken(ctx context.Context, token string) (*model.Booking, error)
	CancelByManageToken(ctx context.Context, token string) error
	RecordPayment(ctx context.Context, chargeID string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	castles   repository.CastleReader
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	adapter   *adapter.Adapter
	sealer    *sealer.Sealer
	calendar  CalendarAPI
	payments  PaymentsAPI
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	castles repository.CastleReader,
	lockRepo repository.BookingLockRepository,
	bookingValidator *validator.BookingValidator,
	slotAdapter *adapter.Adapter,
	tokenSealer *sealer.Sealer,
	calendar CalendarAPI,
	payments PaymentsAPI,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		castles:   castles,
		lockRepo:  lockRepo,
		validator: bookingValidator,
		adapter:   slotAdapter,
		sealer:    tokenSealer,
		calendar:  calendar,
		payments:  payments,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, candidate model.CandidateBooking) (*model.Booking, *model.ValidationResult, error) {
	s.sanitize(&candidate)

	castle, err := s.resolveCastle(ctx, candidate.Castle)
	if err != nil {
		return nil, nil, err
	}
	candidate.Castle = castle.Name

	// Prices are authoritative server-side; whatever the client sent is
	// discarded.
	breakdown := s.priceCandidate(&candidate, castle, nil)
	candidate.TotalPrice = breakdown.Total
	candidate.Deposit = breakdown.Deposit

	existing := s.snapshot(ctx, candidate)
	result := s.validator.Validate(candidate, existing, "")
	if len(result.Conflicts) > 0 {
		result.Suggestions = s.validator.SuggestAlternatives(candidate, existing, s.cfg.SuggestWindowDays, s.cfg.SuggestMax)
	}
	if !result.IsValid {
		return nil, &result, nil
	}

	startAt, endAt, err := timeslot.Interval(candidate.Date, candidate.EndDate, candidate.StartTime, candidate.EndTime, candidate.Overnight, s.cfg.Location)
	if err != nil {
		return nil, nil, apperrors.InvalidInput(err.Error())
	}

	booking := s.buildBooking(candidate, castle, breakdown, startAt, endAt)

	lockID, err := s.acquireSlotLock(ctx, castle.Name, candidate.Date, candidate.StartTime)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Another writer may have slipped in between the snapshot read
		// and this transaction; the database is the final arbiter.
		overlapping, overlapErr := s.repo.FindOverlapping(sessCtx, castle.Name, startAt, endAt, "")
		if overlapErr != nil {
			return apperrors.Internal("Failed to verify slot availability", overlapErr)
		}
		if len(overlapping) > 0 {
			return slotTakenError(castle.Name, overlapping[0])
		}
		if createErr := s.repo.Create(sessCtx, booking); createErr != nil {
			return apperrors.Internal("Failed to create booking", createErr)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, nil, err
		}
		return nil, nil, apperrors.Internal("Failed to create booking", err)
	}

	s.attachManageToken(ctx, booking)
	s.createCalendarEvent(ctx, booking)
	s.publishEvent(ctx, model.EventBookingCreated, booking)

	s.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"castle", booking.CastleName,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return booking, &result, nil
}

// Validate is the dry-run counterpart of Create: same sanitization,
// pricing and conflict detection, nothing persisted. An unknown castle is
// reported as a field error rather than a lookup failure so the booking
// form can surface it inline.
func (s *bookingService) Validate(ctx context.Context, candidate model.CandidateBooking, excludeID string) (*model.ValidationResult, error) {
	s.sanitize(&candidate)

	castle, err := s.resolveCastle(ctx, candidate.Castle)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		if appErr != nil && appErr.Code == apperrors.CodeNotFound {
			result := s.validator.Validate(candidate, nil, excludeID)
			if result.Errors == nil {
				result.Errors = map[string]string{}
			}
			result.Errors["castle"] = "no castle matches this name"
			result.IsValid = false
			return &result, nil
		}
		return nil, err
	}
	candidate.Castle = castle.Name

	breakdown := s.priceCandidate(&candidate, castle, nil)
	candidate.TotalPrice = breakdown.Total
	candidate.Deposit = breakdown.Deposit

	existing := s.snapshot(ctx, candidate)
	result := s.validator.Validate(candidate, existing, excludeID)
	if len(result.Conflicts) > 0 {
		result.Suggestions = s.validator.SuggestAlternatives(candidate, existing, s.cfg.SuggestWindowDays, s.cfg.SuggestMax)
	}
	return &result, nil
}

func (s *bookingService) Availability(ctx context.Context, castleName, date, startTime, endTime string) (*AvailabilityResult, error) {
	castle, err := s.resolveCastle(ctx, sanitizer.NormalizeCastleName(castleName))
	if err != nil {
		return nil, err
	}
	if startTime == "" || endTime == "" {
		startTime, endTime = timeslot.DefaultWindow(s.cfg.BookingDayStart, s.cfg.BookingDayEnd)
	}

	query := model.CandidateBooking{
		Castle:    castle.Name,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}
	existing := s.snapshot(ctx, query)

	conflicts, err := s.validator.Conflicts(castle.Name, date, startTime, endTime, false, existing, "")
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	result := &AvailabilityResult{
		Castle:    castle.Name,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}
	if len(conflicts) > 0 {
		result.Suggestions = s.validator.SuggestAlternatives(query, existing, s.cfg.SuggestWindowDays, s.cfg.SuggestMax)
	}
	return result, nil
}

func (s *bookingService) Quote(ctx context.Context, req QuoteRequest) (*pricing.Breakdown, error) {
	castle, err := s.resolveCastle(ctx, sanitizer.NormalizeCastleName(req.Castle))
	if err != nil {
		return nil, err
	}
	if _, err := timeslot.ParseDate(req.Date); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date: %s", req.Date))
	}
	if req.EndDate != "" {
		if _, err := timeslot.ParseDate(req.EndDate); err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid end_date: %s", req.EndDate))
		}
	}

	days := pricing.DaysBetween(req.Date, req.EndDate)
	extras := make([]float64, 0, len(req.Extras))
	for _, line := range req.Extras {
		extras = append(extras, line.Amount)
	}
	rules := s.pricingRules(req.Postcode)
	breakdown := pricing.Quote(castle.BasePrice, days, req.Overnight, pricing.SumExtras(extras), rules)
	return &breakdown, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.FindAll(ctx, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}
	return bookings, total, nil
}

func (s *bookingService) Search(ctx context.Context, castle, status, fromDate, toDate string, limit int, offset int64) ([]*model.Booking, int64, error) {
	castle = sanitizer.NormalizeCastleName(castle)
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !validStatus(status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status: %s", status))
	}

	from, err := s.dayBound(fromDate, 0)
	if err != nil {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid from date: %s", fromDate))
	}
	// The to bound is exclusive of the following day so a single-day
	// range covers the whole day.
	to, err := s.dayBound(toDate, 1)
	if err != nil {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid to date: %s", toDate))
	}

	var (
		wg       sync.WaitGroup
		bookings []*model.Booking
		total    int64
		findErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, findErr = s.repo.Search(ctx, castle, status, from, to, limit, offset)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.repo.CountSearch(ctx, castle, status, from, to)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, apperrors.Internal("Failed to search bookings", findErr)
	}
	if countErr != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", countErr)
	}
	return bookings, total, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, *model.ValidationResult, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, s.mapRepoError(err, id)
	}

	merged := *booking
	mergeBookingUpdates(&merged, updates)

	castle, err := s.resolveCastle(ctx, merged.CastleName)
	if err != nil {
		return nil, nil, err
	}

	candidate := candidateFrom(&merged)
	s.sanitize(&candidate)

	extras := make([]float64, 0, len(merged.ExtraCosts))
	for _, line := range merged.ExtraCosts {
		extras = append(extras, line.Amount)
	}
	breakdown := s.priceCandidate(&candidate, castle, extras)
	candidate.TotalPrice = breakdown.Total
	candidate.Deposit = breakdown.Deposit

	existing := s.snapshot(ctx, candidate)
	result := s.validator.Validate(candidate, existing, id)
	if len(result.Conflicts) > 0 {
		result.Suggestions = s.validator.SuggestAlternatives(candidate, existing, s.cfg.SuggestWindowDays, s.cfg.SuggestMax)
	}
	if !result.IsValid {
		return nil, &result, nil
	}

	startAt, endAt, err := timeslot.Interval(candidate.Date, candidate.EndDate, candidate.StartTime, candidate.EndTime, candidate.Overnight, s.cfg.Location)
	if err != nil {
		return nil, nil, apperrors.InvalidInput(err.Error())
	}

	merged.CustomerName = candidate.CustomerName
	merged.CustomerEmail = candidate.CustomerEmail
	merged.CustomerPhone = candidate.CustomerPhone
	merged.Address = candidate.Address
	merged.Postcode = candidate.Postcode
	merged.StartAt = startAt
	merged.EndAt = endAt
	merged.TotalPrice = breakdown.Total
	merged.Deposit = breakdown.Deposit

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, overlapErr := s.repo.FindOverlapping(sessCtx, merged.CastleName, startAt, endAt, id)
		if overlapErr != nil {
			return apperrors.Internal("Failed to verify slot availability", overlapErr)
		}
		if len(overlapping) > 0 {
			return slotTakenError(merged.CastleName, overlapping[0])
		}
		if _, updateErr := s.repo.Update(sessCtx, id, &merged); updateErr != nil {
			return updateErr
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, nil, err
		}
		return nil, nil, s.mapRepoError(err, id)
	}

	s.cfg.Log.Info("Booking updated", "booking_id", id)
	return &merged, &result, nil
}

func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	if !model.IsActiveStatus(booking.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf("booking %s is %s and cannot be confirmed", id, booking.Status))
	}
	if booking.Status == model.StatusConfirmed {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusConfirmed); err != nil {
		return nil, s.mapRepoError(err, id)
	}
	booking.Status = model.StatusConfirmed

	s.publishEvent(ctx, model.EventBookingConfirmed, booking)
	s.cfg.Log.Info("Booking confirmed", "booking_id", id)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, id)
	}
	return s.cancel(ctx, booking)
}

func (s *bookingService) GetByManageToken(ctx context.Context, token string) (*model.Booking, error) {
	booking, err := s.openManageToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelByManageToken lets a customer cancel their own booking. Only
// active bookings whose hire has not started yet can be cancelled this
// way.
func (s *bookingService) CancelByManageToken(ctx context.Context, token string) error {
	booking, err := s.openManageToken(ctx, token)
	if err != nil {
		return err
	}
	if booking.StartAt.Before(time.Now()) {
		return apperrors.Conflict("this booking can no longer be cancelled")
	}
	return s.cancel(ctx, booking)
}

// RecordPayment handles a verified payment webhook. The charge is
// re-fetched from the payment provider rather than trusted from the
// webhook body.
func (s *bookingService) RecordPayment(ctx context.Context, chargeID string) error {
	if s.payments == nil {
		return apperrors.Unavailable("payments")
	}

	charge, err := s.payments.GetCharge(ctx, chargeID)
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to fetch charge", err)
	}
	if charge.Status != client.ChargeStatusSucceeded {
		return apperrors.InvalidInput(fmt.Sprintf("charge %s has status %s", chargeID, charge.Status))
	}
	if charge.BookingID == "" {
		return apperrors.InvalidInput(fmt.Sprintf("charge %s carries no booking reference", chargeID))
	}

	if err := s.repo.MarkDepositPaid(ctx, charge.BookingID, time.Now()); err != nil {
		return s.mapRepoError(err, charge.BookingID)
	}

	booking, err := s.repo.FindByID(ctx, charge.BookingID)
	if err != nil {
		return s.mapRepoError(err, charge.BookingID)
	}

	s.publishEvent(ctx, model.EventBookingPaymentReceived, booking)
	s.publishEvent(ctx, model.EventBookingConfirmed, booking)
	s.cfg.Log.Info("Deposit recorded", "booking_id", booking.ID, "charge_id", chargeID, "amount", charge.Amount)
	return nil
}

func (s *bookingService) cancel(ctx context.Context, booking *model.Booking) error {
	if !model.IsActiveStatus(booking.Status) {
		return apperrors.Conflict(fmt.Sprintf("booking %s is already %s", booking.ID, booking.Status))
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, model.StatusCancelled); err != nil {
		return s.mapRepoError(err, booking.ID)
	}
	booking.Status = model.StatusCancelled

	if s.calendar != nil && booking.CalendarEventID != "" {
		if err := s.calendar.DeleteEvent(ctx, booking.CalendarEventID); err != nil {
			s.cfg.Log.Warn("Failed to delete calendar event", "booking_id", booking.ID, "event_id", booking.CalendarEventID, "error", err)
		}
	}

	s.publishEvent(ctx, model.EventBookingCancelled, booking)
	s.cfg.Log.Info("Booking cancelled", "booking_id", booking.ID)
	return nil
}

func (s *bookingService) openManageToken(ctx context.Context, token string) (*model.Booking, error) {
	bookingID, email, err := s.sealer.Open(token)
	if err != nil {
		return nil, apperrors.Unauthorized("manage link is invalid or has been tampered with")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("manage link no longer matches a booking")
		}
		return nil, s.mapRepoError(err, bookingID)
	}
	if !strings.EqualFold(booking.CustomerEmail, email) {
		return nil, apperrors.Unauthorized("manage link no longer matches a booking")
	}
	return booking, nil
}

func (s *bookingService) sanitize(c *model.CandidateBooking) {
	c.CustomerName = sanitizer.NormalizeName(c.CustomerName)
	c.CustomerEmail = sanitizer.NormalizeEmail(c.CustomerEmail)
	c.CustomerPhone = sanitizer.NormalizePhone(c.CustomerPhone)
	c.Address = sanitizer.NormalizeAddress(c.Address)
	c.Postcode = sanitizer.NormalizePostcode(c.Postcode)
	c.Castle = sanitizer.NormalizeCastleName(c.Castle)
	c.Notes = sanitizer.TrimAndNormalize(c.Notes)
	c.Date = strings.TrimSpace(c.Date)
	c.EndDate = strings.TrimSpace(c.EndDate)
	c.StartTime = strings.TrimSpace(c.StartTime)
	c.EndTime = strings.TrimSpace(c.EndTime)
}

func (s *bookingService) resolveCastle(ctx context.Context, name string) (*model.Castle, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.InvalidInput("castle is required")
	}

	castle, err := s.castles.FindBySlugOrName(ctx, name)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrCastleNotFound) {
			return nil, apperrors.NotFoundWithID("Castle", name)
		}
		return nil, apperrors.Internal("Failed to look up castle", err)
	}
	if !castle.Active {
		return nil, apperrors.Validation("this castle is not currently available for hire", map[string]any{
			"castle": castle.Name,
		})
	}
	return castle, nil
}

func (s *bookingService) priceCandidate(c *model.CandidateBooking, castle *model.Castle, extras []float64) pricing.Breakdown {
	days := pricing.DaysBetween(c.Date, c.EndDate)
	return pricing.Quote(castle.BasePrice, days, c.Overnight, pricing.SumExtras(extras), s.pricingRules(c.Postcode))
}

func (s *bookingService) pricingRules(postcode string) pricing.Rules {
	return pricing.Rules{
		OvernightSurcharge: s.cfg.OvernightSurcharge,
		DepositFraction:    s.cfg.DepositFraction,
		DeliveryFee:        servicearea.DeliveryFee(postcode),
	}
}

// snapshot loads every booking that could collide with or sit near the
// candidate: the database records plus, when a calendar is configured,
// its events, deduplicated by calendar event ID. The window extends past
// the candidate by the suggestion range so alternative slots can be
// checked against the same snapshot. A calendar outage degrades to
// database-only validation.
func (s *bookingService) snapshot(ctx context.Context, candidate model.CandidateBooking) []model.ExistingBooking {
	day, err := timeslot.ParseDate(candidate.Date)
	if err != nil {
		return nil
	}

	margin := s.cfg.SuggestWindowDays + 1
	from := day.AddDate(0, 0, -margin)
	to := day.AddDate(0, 0, margin)
	if candidate.EndDate != "" {
		if endDay, endErr := timeslot.ParseDate(candidate.EndDate); endErr == nil && endDay.After(day) {
			to = endDay.AddDate(0, 0, margin)
		}
	}

	records, err := s.repo.FindInRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for validation", "error", err)
		records = nil
	}
	bookings := make([]model.Booking, 0, len(records))
	for _, r := range records {
		bookings = append(bookings, *r)
	}

	var events []client.CalendarEvent
	if s.calendar != nil {
		events, err = s.calendar.ListEvents(ctx, from, to.AddDate(0, 0, 1))
		if err != nil {
			s.cfg.Log.Warn("Calendar unavailable, validating against database only", "error", err)
			events = nil
		}
	}

	return s.adapter.Merge(bookings, events)
}

func (s *bookingService) buildBooking(candidate model.CandidateBooking, castle *model.Castle, breakdown pricing.Breakdown, startAt, endAt time.Time) *model.Booking {
	return &model.Booking{
		CastleID:      castle.ID,
		CastleName:    castle.Name,
		CustomerName:  candidate.CustomerName,
		CustomerEmail: candidate.CustomerEmail,
		CustomerPhone: candidate.CustomerPhone,
		Address:       candidate.Address,
		Postcode:      candidate.Postcode,
		Date:          candidate.Date,
		EndDate:       candidate.EndDate,
		StartTime:     candidate.StartTime,
		EndTime:       candidate.EndTime,
		Overnight:     candidate.Overnight,
		StartAt:       startAt,
		EndAt:         endAt,
		Status:        model.StatusPending,
		TotalPrice:    breakdown.Total,
		Deposit:       breakdown.Deposit,
		Notes:         candidate.Notes,
	}
}

func (s *bookingService) attachManageToken(ctx context.Context, booking *model.Booking) {
	token, err := s.sealer.Seal(booking.ID, booking.CustomerEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to seal manage token", "booking_id", booking.ID, "error", err)
		return
	}
	if err := s.repo.SetManageToken(ctx, booking.ID, token); err != nil {
		s.cfg.Log.Error("Failed to store manage token", "booking_id", booking.ID, "error", err)
		return
	}
	booking.ManageToken = token
}

func (s *bookingService) createCalendarEvent(ctx context.Context, booking *model.Booking) {
	if s.calendar == nil {
		return
	}

	event := client.CalendarEvent{
		Title:       fmt.Sprintf("%s hire for %s", booking.CastleName, booking.CustomerName),
		Description: fmt.Sprintf("Castle: %s\nBooking: %s", booking.CastleName, booking.ID),
		Start:       booking.StartAt.In(s.cfg.Location).Format(time.RFC3339),
		End:         booking.EndAt.In(s.cfg.Location).Format(time.RFC3339),
	}
	eventID, err := s.calendar.CreateEvent(ctx, event)
	if err != nil {
		s.cfg.Log.Warn("Failed to create calendar event", "booking_id", booking.ID, "error", err)
		return
	}
	if err := s.repo.SetCalendarEventID(ctx, booking.ID, eventID); err != nil {
		s.cfg.Log.Warn("Failed to store calendar event id", "booking_id", booking.ID, "event_id", eventID, "error", err)
		return
	}
	booking.CalendarEventID = eventID
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	event := model.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		CastleName:    booking.CastleName,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		Date:          booking.Date,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		TotalPrice:    booking.TotalPrice,
		Deposit:       booking.Deposit,
		ManageToken:   booking.ManageToken,
		OccurredAt:    time.Now().UTC(),
	}
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithSource(s.cfg.ServiceName).
		WithSchemaVersion("1").
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "booking_id", booking.ID, "event_type", eventType, "error", err)
	}
}

func (s *bookingService) acquireSlotLock(ctx context.Context, castle, date, startTime string) (string, error) {
	lockID, err := s.lockRepo.Acquire(ctx, castle, date, startTime, s.cfg.RequestTimeout)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Conflict("this slot is currently being booked by someone else, try again shortly")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Release(ctx, lockID)
}

func (s *bookingService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("invalid booking id: %s", id))
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Booking storage failure", err)
	}
}

// dayBound turns a yyyy-mm-dd string into midnight local time plus
// offsetDays. Empty input means no bound.
func (s *bookingService) dayBound(date string, offsetDays int) (*time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return nil, nil
	}
	day, err := timeslot.ParseDate(date)
	if err != nil {
		return nil, err
	}
	bound := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.cfg.Location).AddDate(0, 0, offsetDays)
	return &bound, nil
}

func validStatus(status string) bool {
	switch status {
	case model.StatusPending, model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted, model.StatusExpired:
		return true
	}
	return false
}

func candidateFrom(b *model.Booking) model.CandidateBooking {
	return model.CandidateBooking{
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Address:       b.Address,
		Postcode:      b.Postcode,
		Date:          b.Date,
		EndDate:       b.EndDate,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Overnight:     b.Overnight,
		Castle:        b.CastleName,
		Notes:         b.Notes,
	}
}

func mergeBookingUpdates(b *model.Booking, u *model.BookingUpdate) {
	if u == nil {
		return
	}
	if u.CustomerName != "" {
		b.CustomerName = u.CustomerName
	}
	if u.CustomerEmail != "" {
		b.CustomerEmail = u.CustomerEmail
	}
	if u.CustomerPhone != "" {
		b.CustomerPhone = u.CustomerPhone
	}
	if u.Address != "" {
		b.Address = u.Address
	}
	if u.Postcode != "" {
		b.Postcode = u.Postcode
	}
	if u.Date != "" {
		b.Date = u.Date
	}
	if u.EndDate != nil {
		b.EndDate = *u.EndDate
	}
	if u.StartTime != "" {
		b.StartTime = u.StartTime
	}
	if u.EndTime != "" {
		b.EndTime = u.EndTime
	}
	if u.Overnight != nil {
		b.Overnight = *u.Overnight
	}
	if u.Status != "" {
		b.Status = u.Status
	}
	if u.ExtraCosts != nil {
		b.ExtraCosts = *u.ExtraCosts
	}
	if u.Notes != nil {
		b.Notes = *u.Notes
	}
}

// slotTakenError reports a booking that raced in between the snapshot
// read and the transactional re-check. The details mirror the validator's
// conflict shape so clients can render both the same way.
func slotTakenError(castle string, clash *model.Booking) *apperrors.AppError {
	return apperrors.Conflict(fmt.Sprintf("%s is no longer available for the requested slot", castle)).
		WithDetails(map[string]any{
			"conflicts": []model.Conflict{{
				Type:      model.ConflictSameCastle,
				BookingID: clash.ID,
				Castle:    castle,
				Date:      clash.Date,
				StartTime: clash.StartTime,
				EndTime:   clash.EndTime,
				Message:   fmt.Sprintf("%s is already booked on %s from %s to %s (booking %s)", castle, clash.Date, clash.StartTime, clash.EndTime, clash.ID),
			}},
		})
}
