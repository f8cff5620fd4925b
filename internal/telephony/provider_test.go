package telephony

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name        string
		phone       string
		countryCode string
		want        string
	}{
		{"bare national number", "9876543210", "91", "9876543210"},
		{"e164 with plus", "+919876543210", "91", "9876543210"},
		{"spaces and dashes", "+91 98765-43210", "91", "9876543210"},
		{"trunk zero", "09876543210", "91", "9876543210"},
		{"country code and trunk zero", "+9109876543210", "91", "9876543210"},
		{"no country code configured", "+919876543210", "", "919876543210"},
		{"short number kept whole", "9198", "91", "9198"},
		{"number starting with country digits", "9123456789", "91", "9123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone, tt.countryCode); got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.phone, tt.countryCode, got, tt.want)
			}
		})
	}
}
