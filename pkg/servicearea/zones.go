// Package servicearea maps customer postcodes onto the delivery zones
// the business serves and the fee charged for each.
package servicearea

import "strings"

// Zone is one ring of the delivery area around the depot.
type Zone struct {
	Code            string   // short zone identifier
	Name            string   // human-readable zone name
	PostcodePrefixes []string // outward-code prefixes covered by the zone
	DeliveryFee     float64  // pounds, added to the quote
}

var (
	// Zones are checked in order; the first prefix match wins, so the
	// tighter local zone must precede the wider ones.
	Zones = []Zone{
		{
			Code:            "local",
			Name:            "Local (free delivery)",
			PostcodePrefixes: []string{"BS1", "BS2", "BS3", "BS4", "BS5", "BS6", "BS7", "BS8", "BS9"},
			DeliveryFee:     0,
		},
		{
			Code:            "greater",
			Name:            "Greater Bristol",
			PostcodePrefixes: []string{"BS", "BA1", "BA2"},
			DeliveryFee:     10,
		},
		{
			Code:            "extended",
			Name:            "Extended area",
			PostcodePrefixes: []string{"BA", "GL", "SN", "TA", "NP"},
			DeliveryFee:     25,
		},
	}
)

// DetectZone returns the zone serving the postcode, or nil when the
// address is outside the service area.
func DetectZone(postcode string) *Zone {
	district, area := splitOutward(postcode)
	if district == "" {
		return nil
	}

	for i := range Zones {
		for _, prefix := range Zones[i].PostcodePrefixes {
			// A letters-only prefix covers the whole postcode area;
			// anything longer must name the exact district, so BS16
			// never matches BS1.
			if prefix == area || prefix == district {
				return &Zones[i]
			}
		}
	}
	return nil
}

// splitOutward isolates the outward code of a postcode and its leading
// letter area. "BS16 1QY" yields ("BS16", "BS").
func splitOutward(postcode string) (string, string) {
	normalized := strings.ToUpper(strings.TrimSpace(postcode))
	if normalized == "" {
		return "", ""
	}

	if i := strings.IndexByte(normalized, ' '); i > 0 {
		normalized = normalized[:i]
	} else if len(normalized) > 4 {
		// Without a space the inward code is always its last three
		// characters.
		normalized = normalized[:len(normalized)-3]
	}

	i := 0
	for i < len(normalized) && normalized[i] >= 'A' && normalized[i] <= 'Z' {
		i++
	}
	return normalized, normalized[:i]
}

// InServiceArea reports whether the business delivers to the postcode.
func InServiceArea(postcode string) bool {
	return DetectZone(postcode) != nil
}

// DeliveryFee returns the fee for the postcode's zone. An empty
// postcode quotes without delivery. Unserved postcodes get the
// extended-area fee so a quote is still possible; the booking form
// flags them separately.
func DeliveryFee(postcode string) float64 {
	if strings.TrimSpace(postcode) == "" {
		return 0
	}
	if zone := DetectZone(postcode); zone != nil {
		return zone.DeliveryFee
	}
	return Zones[len(Zones)-1].DeliveryFee
}
