package contract

import "testing"

func TestParseIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   Intent
		wantOK bool
	}{
		{raw: "refund", want: IntentRefund, wantOK: true},
		{raw: "  Billing ", want: IntentBilling, wantOK: true},
		{raw: "general help", want: IntentGeneralHelp, wantOK: true},
		{raw: "General-Help", want: IntentGeneralHelp, wantOK: true},
		{raw: `"cancellation"`, want: IntentCancellation, wantOK: true},
		{raw: "error", want: IntentUnknown, wantOK: false},
		{raw: "complaint", want: IntentUnknown, wantOK: false},
		{raw: "", want: IntentUnknown, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseIntent(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseIntent(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseUrgency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   Urgency
		wantOK bool
	}{
		{raw: "low", want: UrgencyLow, wantOK: true},
		{raw: "HIGH", want: UrgencyHigh, wantOK: true},
		{raw: " medium.", want: UrgencyMedium, wantOK: true},
		{raw: "urgent", want: UrgencyUnknown, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ParseUrgency(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseUrgency(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFallbackClassification(t *testing.T) {
	t.Parallel()

	got := FallbackClassification()
	if got.Intent != IntentError || got.Urgency != UrgencyLow {
		t.Fatalf("FallbackClassification() = %#v", got)
	}
}
