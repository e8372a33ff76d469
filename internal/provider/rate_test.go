package provider

import "testing"

func TestSpeedMultiplier(t *testing.T) {
	tests := []struct {
		wpm  int
		want float64
	}{
		{150, 1.0},
		{75, 0.5},
		{300, 2.0},
		{30, 0.25},  // clamped low
		{700, 4.0},  // clamped high
	}
	for _, tt := range tests {
		if got := SpeedMultiplier(tt.wpm); got != tt.want {
			t.Errorf("SpeedMultiplier(%d) = %v, want %v", tt.wpm, got, tt.want)
		}
	}
}

func TestRatePercent(t *testing.T) {
	if got := RatePercent(150); got != 100 {
		t.Errorf("RatePercent(150) = %d, want 100", got)
	}
	if got := RatePercent(300); got != 200 {
		t.Errorf("RatePercent(300) = %d, want 200", got)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Voice = "Alex"

	opts := Options{}.WithDefaults(cfg)
	if opts.Voice != "Alex" || opts.Rate != 200 || opts.Format != cfg.Format {
		t.Errorf("WithDefaults did not fill zero fields: %+v", opts)
	}

	opts = Options{Voice: "Samantha", Rate: 120}.WithDefaults(cfg)
	if opts.Voice != "Samantha" || opts.Rate != 120 {
		t.Errorf("WithDefaults clobbered explicit fields: %+v", opts)
	}
}
