// Package clock owns "today" for the whole system: the MSK calendar day
// expressed in UTC. Moscow has no DST, so a fixed offset is correct.
package clock

import "time"

// MSK is Europe/Moscow, UTC+3, no DST.
var MSK = time.FixedZone("MSK", 3*60*60)

// Clock is injected anywhere "now" appears so tests stay deterministic.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func System() Clock { return systemClock{} }

// Fixed returns a clock pinned to t.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// DayBounds returns the half-open UTC interval [00:00 MSK, 24:00 MSK) of the
// MSK day containing now.
func DayBounds(now time.Time) (start, end time.Time) {
	msk := now.In(MSK)
	s := time.Date(msk.Year(), msk.Month(), msk.Day(), 0, 0, 0, 0, MSK)
	return s.UTC(), s.Add(24 * time.Hour).UTC()
}

// EndOfDay returns the UTC instant of the next MSK midnight.
func EndOfDay(now time.Time) time.Time {
	_, end := DayBounds(now)
	return end
}

// ResetLabel formats the next MSK day boundary as "HH:MM DD.MM.YYYY" MSK.
func ResetLabel(now time.Time) string {
	return EndOfDay(now).In(MSK).Format("15:04 02.01.2006")
}

// TodayMSK returns midnight of the current MSK day, in MSK.
func TodayMSK(now time.Time) time.Time {
	msk := now.In(MSK)
	return time.Date(msk.Year(), msk.Month(), msk.Day(), 0, 0, 0, 0, MSK)
}
