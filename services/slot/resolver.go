// Package slot turns displayed slot labels such as "9:00 AM - 11:00 AM"
// into 24-hour times and a price.
package slot

import (
	"fmt"
	"strings"
	"time"

	"groundbook/utils"
)

const (
	separator    = " - "
	labelLayout  = "3:04 PM"
	storedLayout = "15:04:05"
)

// Quote is the resolved form of a slot label.
type Quote struct {
	Label         string  `json:"label"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours int     `json:"duration_hours"`
	HourlyPrice   float64 `json:"hourly_price"`
	TotalPrice    float64 `json:"total_price"`
}

// ComputeSlot parses label and prices it at hourlyPrice per hour.
// Only whole-hour slots within a single day are accepted.
func ComputeSlot(label string, hourlyPrice float64) (Quote, error) {
	if hourlyPrice <= 0 {
		return Quote{}, utils.ValidationError{Field: "price_per_hour", Msg: "must be greater than zero"}
	}

	parts := strings.Split(label, separator)
	if len(parts) != 2 {
		return Quote{}, utils.ValidationError{Field: "time_slot", Msg: fmt.Sprintf("%q is not of the form \"9:00 AM - 11:00 AM\"", label)}
	}

	start, err := parseClock(parts[0])
	if err != nil {
		return Quote{}, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return Quote{}, err
	}

	if start.Minute() != end.Minute() {
		return Quote{}, utils.ValidationError{Field: "time_slot", Msg: "slots must span a whole number of hours"}
	}
	duration := end.Hour() - start.Hour()
	if duration <= 0 {
		return Quote{}, utils.ValidationError{Field: "time_slot", Msg: "slot must end after it starts on the same day"}
	}

	return Quote{
		Label:         strings.TrimSpace(label),
		StartTime:     start.Format(storedLayout),
		EndTime:       end.Format(storedLayout),
		DurationHours: duration,
		HourlyPrice:   hourlyPrice,
		TotalPrice:    float64(duration) * hourlyPrice,
	}, nil
}

// parseClock reads one 12-hour token. 12 AM is midnight, 12 PM is noon.
func parseClock(token string) (time.Time, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	t, err := time.Parse(labelLayout, token)
	if err != nil {
		return time.Time{}, utils.ValidationError{Field: "time_slot", Msg: fmt.Sprintf("%q is not a 12-hour time like \"9:00 AM\"", token)}
	}
	return t, nil
}

// Label formats a start and end hour (0-23) as a display label.
func Label(startHour, endHour int) string {
	format := func(h int) string {
		return time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format(labelLayout)
	}
	return format(startHour) + separator + format(endHour)
}

// StandardSlots is the fixed catalogue offered on every ground:
// six two-hour slots from 9:00 AM to 9:00 PM.
func StandardSlots() []string {
	slots := make([]string, 0, 6)
	for h := 9; h < 21; h += 2 {
		slots = append(slots, Label(h, h+2))
	}
	return slots
}

// Overlaps reports whether two HH:MM:SS ranges intersect.
func Overlaps(startA, endA, startB, endB string) bool {
	return startA < endB && startB < endA
}
