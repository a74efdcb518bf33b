package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeMonthly(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		frequency Frequency
		want      string
	}{
		{"monthly is identity", "123.45", FrequencyMonthly, "123.45"},
		{"annual divides by twelve", "1200", FrequencyAnnual, "100"},
		{"quarterly divides by three", "50", FrequencyQuarterly, "16.67"},
		{"weekly scales by 52/12", "100", FrequencyWeekly, "433.33"},
		{"biweekly scales by 26/12", "100", FrequencyBiweekly, "216.67"},
		{"unknown frequency contributes zero", "500", Frequency("fortnightly"), "0"},
		{"empty frequency contributes zero", "500", Frequency(""), "0"},
		{"zero amount stays zero", "0", FrequencyWeekly, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			want := decimal.RequireFromString(tt.want)

			got := NormalizeMonthly(amount, tt.frequency)

			// Compare at cent precision; weekly/quarterly results repeat.
			if !got.Round(2).Equal(want.Round(2)) {
				t.Errorf("NormalizeMonthly(%s, %s) = %s, want %s", tt.amount, tt.frequency, got.Round(2), tt.want)
			}
		})
	}
}

func TestNormalizeMonthly_MonthlyIsExact(t *testing.T) {
	amount := decimal.RequireFromString("1234.5678")
	got := NormalizeMonthly(amount, FrequencyMonthly)
	if !got.Equal(amount) {
		t.Errorf("monthly normalization must be exact, got %s want %s", got, amount)
	}
}

func TestNormalizeMonthly_NonNegative(t *testing.T) {
	frequencies := []Frequency{
		FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyAnnual, Frequency("bogus"),
	}
	amounts := []string{"0", "0.01", "1", "99.99", "100000"}

	for _, f := range frequencies {
		for _, a := range amounts {
			got := NormalizeMonthly(decimal.RequireFromString(a), f)
			if got.IsNegative() {
				t.Errorf("NormalizeMonthly(%s, %s) = %s, want non-negative", a, f, got)
			}
		}
	}
}

func TestRecurringObligation_MonthlyAmount(t *testing.T) {
	o := &RecurringObligation{
		Name:      "Streaming",
		Kind:      ObligationKindSubscription,
		Amount:    decimal.RequireFromString("120"),
		Frequency: FrequencyAnnual,
		Status:    ObligationStatusActive,
	}

	if got := o.MonthlyAmount(); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("MonthlyAmount() = %s, want 10", got)
	}
	if !o.IsActive() {
		t.Error("IsActive() = false, want true")
	}
}
