package servicearea

import "testing"

func TestDetectZone(t *testing.T) {
	tests := []struct {
		name     string
		postcode string
		wantCode string
	}{
		{name: "central is local", postcode: "BS1 4DJ", wantCode: "local"},
		{name: "lowercase local", postcode: "bs8 2lr", wantCode: "local"},
		{name: "outer BS is greater", postcode: "BS16 1QY", wantCode: "greater"},
		{name: "spaceless outer BS", postcode: "BS161QY", wantCode: "greater"},
		{name: "bath is greater", postcode: "BA1 1LZ", wantCode: "greater"},
		{name: "frome is extended not bath", postcode: "BA11 1DS", wantCode: "extended"},
		{name: "gloucester is extended", postcode: "GL1 1DP", wantCode: "extended"},
		{name: "newport is extended", postcode: "NP10 8QQ", wantCode: "extended"},
		{name: "london unserved", postcode: "SW1A 1AA", wantCode: ""},
		{name: "empty", postcode: "", wantCode: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := DetectZone(tt.postcode)
			if tt.wantCode == "" {
				if zone != nil {
					t.Errorf("DetectZone(%q) = %v, want nil", tt.postcode, zone.Code)
				}
				return
			}
			if zone == nil {
				t.Fatalf("DetectZone(%q) = nil, want %q", tt.postcode, tt.wantCode)
			}
			if zone.Code != tt.wantCode {
				t.Errorf("DetectZone(%q) = %q, want %q", tt.postcode, zone.Code, tt.wantCode)
			}
		})
	}
}

func TestDeliveryFee(t *testing.T) {
	if fee := DeliveryFee("BS3 2AB"); fee != 0 {
		t.Errorf("local fee = %v, want 0", fee)
	}
	if fee := DeliveryFee("BS20 7DD"); fee != 10 {
		t.Errorf("greater fee = %v, want 10", fee)
	}
	// No postcode means collection, so no delivery charge.
	if fee := DeliveryFee(""); fee != 0 {
		t.Errorf("empty postcode fee = %v, want 0", fee)
	}
	// Unserved postcodes price at the outermost ring.
	if fee := DeliveryFee("SW1A 1AA"); fee != 25 {
		t.Errorf("unserved fee = %v, want 25", fee)
	}
}
