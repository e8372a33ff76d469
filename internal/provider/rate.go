package provider

// Speaking-rate conversion. Users specify rates in words per minute (the
// unit macOS say uses natively); cloud engines want a relative speed
// multiplier instead.
const (
	// NormalWPM is the rate treated as 1.0x speed.
	NormalWPM = 150

	minSpeed = 0.25
	maxSpeed = 4.0
)

// SpeedMultiplier converts a words-per-minute rate to the speed
// multiplier cloud APIs accept, clamped to [0.25, 4.0]. 150 WPM maps to
// 1.0, 75 to 0.5, 300 to 2.0.
func SpeedMultiplier(wpm int) float64 {
	speed := float64(wpm) / float64(NormalWPM)
	if speed < minSpeed {
		return minSpeed
	}
	if speed > maxSpeed {
		return maxSpeed
	}
	return speed
}

// RatePercent converts a words-per-minute rate to the percentage scale
// used by SSML prosody attributes. 150 WPM maps to 100%.
func RatePercent(wpm int) int {
	return int(SpeedMultiplier(wpm) * 100)
}
