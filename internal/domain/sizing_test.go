package domain

import "testing"

func TestParseSizingStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SizingStrategy
		wantErr bool
	}{
		{"FixedFractional", "fixed_fractional", StrategyFixedFractional, false},
		{"EmptyDefaults", "", StrategyFixedFractional, false},
		{"Kelly", "kelly", StrategyKelly, false},
		{"Volatility", "volatility", StrategyVolatilityBased, false},
		{"Martingale", "martingale", StrategyMartingaleAdaptive, false},
		{"Unknown", "yolo", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSizingStrategy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSizingStrategy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSizingStrategy_StringRoundTrip(t *testing.T) {
	for _, s := range []SizingStrategy{
		StrategyFixedFractional, StrategyKelly, StrategyVolatilityBased, StrategyMartingaleAdaptive,
	} {
		parsed, err := ParseSizingStrategy(s.String())
		if err != nil {
			t.Errorf("%v: %v", s, err)
		}
		if parsed != s {
			t.Errorf("round trip %v -> %q -> %v", s, s.String(), parsed)
		}
	}
}

func TestRejectedSizing(t *testing.T) {
	r := RejectedSizing(StrategyKelly, ReasonBelowMinimumSize)
	if !r.Rejected || r.Size != 0 || r.Reason != ReasonBelowMinimumSize || r.Strategy != StrategyKelly {
		t.Errorf("RejectedSizing = %+v", r)
	}
}
