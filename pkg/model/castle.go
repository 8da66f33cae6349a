package model

import "time"

// HireWindow overrides the business-wide default hire hours for one unit.
type HireWindow struct {
	Open  string `json:"open" bson:"open" validate:"required,valid_clock_time"`
	Close string `json:"close" bson:"close" validate:"required,valid_clock_time"`
}

type Castle struct {
	ID            string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string      `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Slug          string      `json:"slug" bson:"slug" validate:"required,min=2,max=100"`
	Theme         string      `json:"theme,omitempty" bson:"theme,omitempty" validate:"omitempty,max=50"`
	BasePrice     float64     `json:"base_price" bson:"base_price" validate:"required,gt=0"`
	Dimensions    string      `json:"dimensions,omitempty" bson:"dimensions,omitempty" validate:"omitempty,max=50"`
	Capacity      int         `json:"capacity" bson:"capacity" validate:"required,min=1,max=50"`
	AvailableDays []string    `json:"available_days,omitempty" bson:"available_days,omitempty" validate:"omitempty,valid_hire_days"`
	HireWindow    *HireWindow `json:"hire_window,omitempty" bson:"hire_window,omitempty"`
	Active        bool        `json:"active" bson:"active"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" bson:"updated_at"`
}

type CastleUpdate struct {
	Name          string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Theme         string      `json:"theme,omitempty" validate:"omitempty,max=50"`
	BasePrice     *float64    `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	Dimensions    string      `json:"dimensions,omitempty" validate:"omitempty,max=50"`
	Capacity      *int        `json:"capacity,omitempty" validate:"omitempty,min=1,max=50"`
	AvailableDays *[]string   `json:"available_days,omitempty" validate:"omitempty,valid_hire_days"`
	HireWindow    *HireWindow `json:"hire_window,omitempty"`
	Active        *bool       `json:"active,omitempty"`
}
