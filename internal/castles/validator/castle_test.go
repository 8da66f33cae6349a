package validator

import (
	"testing"

	apperrors "castlehire/pkg/errors"
	"castlehire/pkg/model"
)

func validCastle() *model.Castle {
	return &model.Castle{
		Name:      "Jungle Adventure",
		Slug:      "jungle-adventure",
		Theme:     "jungle",
		BasePrice: 80,
		Capacity:  8,
		AvailableDays: []string{
			"saturday", "sunday",
		},
		HireWindow: &model.HireWindow{Open: "09:00", Close: "18:00"},
		Active:     true,
	}
}

func TestValidateCastle(t *testing.T) {
	v := NewCastleValidator()

	tests := []struct {
		name      string
		mutate    func(c *model.Castle)
		wantField string
	}{
		{
			name:   "valid castle",
			mutate: func(c *model.Castle) {},
		},
		{
			name:      "missing name",
			mutate:    func(c *model.Castle) { c.Name = "" },
			wantField: "name",
		},
		{
			name:      "zero base price",
			mutate:    func(c *model.Castle) { c.BasePrice = 0 },
			wantField: "base_price",
		},
		{
			name:      "capacity too large",
			mutate:    func(c *model.Castle) { c.Capacity = 500 },
			wantField: "capacity",
		},
		{
			name:      "unknown hire day",
			mutate:    func(c *model.Castle) { c.AvailableDays = []string{"saturday", "someday"} },
			wantField: "available_days",
		},
		{
			name:      "bad hire window open",
			mutate:    func(c *model.Castle) { c.HireWindow.Open = "9am" },
			wantField: "open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			castle := validCastle()
			tt.mutate(castle)

			err := v.Validate(castle)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			appErr := apperrors.AsAppError(err)
			if err == nil || appErr.Code != apperrors.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
			if _, ok := appErr.Details[tt.wantField]; !ok {
				t.Errorf("expected detail for %q, got %v", tt.wantField, appErr.Details)
			}
		})
	}
}

func TestValidateCastleUpdatePartial(t *testing.T) {
	v := NewCastleValidator()

	// A sparse update with only valid fields set must pass.
	price := 95.0
	if err := v.Validate(&model.CastleUpdate{BasePrice: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := -5.0
	err := v.Validate(&model.CastleUpdate{BasePrice: &bad})
	appErr := apperrors.AsAppError(err)
	if err == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR for negative price, got %v", err)
	}
}
