package block

import (
	"fmt"
	"time"
)

// Duration is a time span split into display units.
type Duration struct {
	Hours   int64
	Minutes int64
	Seconds int64
}

// Split breaks totalSeconds into hours, minutes and seconds by successive
// integer division. Negative input yields the zero Duration.
func Split(totalSeconds int64) Duration {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	totalSeconds -= hours * 3600
	minutes := totalSeconds / 60
	totalSeconds -= minutes * 60
	return Duration{Hours: hours, Minutes: minutes, Seconds: totalSeconds}
}

// Between splits the span from start to end, truncated to whole seconds.
func Between(start, end time.Time) Duration {
	return Split(int64(end.Sub(start) / time.Second))
}

func (d Duration) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hours, d.Minutes, d.Seconds)
}
