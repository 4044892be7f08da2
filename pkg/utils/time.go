package utils

import "time"

// Countdown is the remaining time until a target instant, broken into
// display units. Expired is true once the target has passed.
type Countdown struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"`
}

// CountdownTo computes the countdown from now to target.
func CountdownTo(now, target time.Time) Countdown {
	d := target.Sub(now)
	if d <= 0 {
		return Countdown{Expired: true}
	}
	return Countdown{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
		Seconds: int(d % time.Minute / time.Second),
	}
}

// TruncateText shortens text to at most max runes, appending an ellipsis
// when anything was cut.
func TruncateText(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
