package types

import (
	"fmt"
	"time"
)

type Interval string

const (
	OneMinute      Interval = "1"
	ThreeMinutes   Interval = "3"
	FiveMinutes    Interval = "5"
	FifteenMinutes Interval = "15"
	ThirtyMinutes  Interval = "30"
	Hour           Interval = "60"
	TwoHours       Interval = "120"
	FourHours      Interval = "240"
	Day            Interval = "D"
	Week           Interval = "W"
	Month          Interval = "M"
)

var IntervalToTime = map[Interval]time.Duration{
	OneMinute:      time.Minute,
	ThreeMinutes:   time.Minute * 3,
	FiveMinutes:    time.Minute * 5,
	FifteenMinutes: time.Minute * 15,
	ThirtyMinutes:  time.Minute * 30,
	Hour:           time.Hour,
	TwoHours:       time.Hour * 2,
	FourHours:      time.Hour * 4,
	Day:            time.Hour * 24,
	Week:           time.Hour * 24 * 7,
}

// ParseInterval accepts the short codes used in configuration ("1", "60", "D", ...).
func ParseInterval(s string) (Interval, error) {
	switch itv := Interval(s); itv {
	case OneMinute, ThreeMinutes, FiveMinutes, FifteenMinutes, ThirtyMinutes,
		Hour, TwoHours, FourHours, Day, Week, Month:
		return itv, nil
	}
	return "", fmt.Errorf("unknown interval %q", s)
}
