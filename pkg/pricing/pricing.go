// Package pricing derives hire totals and deposits. Every amount that
// leaves this package is a finite number >= 0: propagating NaN into
// persisted financial data is the defect class this package exists to
// prevent.
package pricing

import (
	"math"
	"time"

	"castlehire/pkg/timeslot"
)

// Rules are the externally supplied pricing constants. The deposit
// fraction is configured once here rather than per call site.
type Rules struct {
	OvernightSurcharge float64
	DepositFraction    float64
	DeliveryFee        float64
}

// Breakdown is an itemized quote for one hire.
type Breakdown struct {
	BasePrice float64 `json:"base_price"`
	Days      int     `json:"days"`
	Overnight bool    `json:"overnight"`
	Surcharge float64 `json:"surcharge"`
	Extras    float64 `json:"extras"`
	Delivery  float64 `json:"delivery"`
	Total     float64 `json:"total"`
	Deposit   float64 `json:"deposit"`
}

// Quote prices a hire of days inclusive days. Non-finite or negative
// inputs contribute zero; the resulting total and deposit are always
// finite and non-negative.
func Quote(basePrice float64, days int, overnight bool, extras float64, rules Rules) Breakdown {
	basePrice = sanitizeAmount(basePrice)
	extras = sanitizeAmount(extras)
	surcharge := 0.0
	if overnight {
		surcharge = sanitizeAmount(rules.OvernightSurcharge)
	}
	delivery := sanitizeAmount(rules.DeliveryFee)
	if days < 1 {
		days = 1
	}

	total := round2(basePrice*float64(days) + surcharge + extras + delivery)

	fraction := rules.DepositFraction
	if !(fraction > 0 && fraction <= 1) {
		fraction = 0
	}
	deposit := round2(total * fraction)

	return Breakdown{
		BasePrice: basePrice,
		Days:      days,
		Overnight: overnight,
		Surcharge: surcharge,
		Extras:    extras,
		Delivery:  delivery,
		Total:     total,
		Deposit:   deposit,
	}
}

// DaysBetween returns the inclusive day count between two ISO dates,
// never less than 1. An empty or malformed end date means a single-day
// hire.
func DaysBetween(startDate, endDate string) int {
	if endDate == "" {
		return 1
	}
	start, err := timeslot.ParseDate(startDate)
	if err != nil {
		return 1
	}
	end, err := timeslot.ParseDate(endDate)
	if err != nil {
		return 1
	}
	days := int(end.Sub(start)/(24*time.Hour)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// SumExtras totals a list of extra amounts with the same guards as Quote.
func SumExtras(amounts []float64) float64 {
	total := 0.0
	for _, a := range amounts {
		total += sanitizeAmount(a)
	}
	return round2(total)
}

func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
