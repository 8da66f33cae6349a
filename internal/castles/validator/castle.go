package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/timeslot"
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// CastleValidator validates castle documents and admin updates with the
// fleet's custom rules registered.
type CastleValidator struct {
	validate *validator.Validate
}

func NewCastleValidator() *CastleValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for blank tags or nil funcs.
	_ = v.RegisterValidation("valid_clock_time", validClockTime)
	_ = v.RegisterValidation("valid_hire_days", validHireDays)

	return &CastleValidator{validate: v}
}

func validClockTime(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseClock(fl.Field().String())
	return err == nil
}

func validHireDays(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		day := strings.ToLower(strings.TrimSpace(field.Index(i).String()))
		if !weekdays[day] {
			return false
		}
	}
	return true
}

// Validate checks v and returns a VALIDATION_ERROR AppError carrying a
// per-field detail map, or nil.
func (cv *CastleValidator) Validate(v any) error {
	err := cv.validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.InvalidInput(err.Error())
	}

	details := make(map[string]any, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details[fieldErr.Field()] = translateFieldError(fieldErr)
	}
	return apperrors.Validation("castle failed validation", details)
}

func translateFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "valid_clock_time":
		return "must be a 24h clock time like 09:30"
	case "valid_hire_days":
		return "must only contain weekday names"
	case "mongodb":
		return "must be a valid object id"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
