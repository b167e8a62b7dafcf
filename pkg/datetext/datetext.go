// Package datetext formats calendar dates as the Japanese strings shown in
// the scene: Gregorian (2026年10月19日), imperial era (令和8年10月19日) or
// ISO 8601.
package datetext

import (
	"fmt"
	"strings"
	"time"
)

// Style selects how a date is written.
type Style int

const (
	StyleGregorian Style = iota // 2026年10月19日
	StyleEra                    // 令和8年10月19日
	StyleISO                    // 2026-10-19
)

func (s Style) String() string {
	switch s {
	case StyleGregorian:
		return "gregorian"
	case StyleEra:
		return "era"
	case StyleISO:
		return "iso"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle accepts the names returned by Style.String, case-insensitively.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gregorian", "":
		return StyleGregorian, nil
	case "era", "wareki":
		return StyleEra, nil
	case "iso":
		return StyleISO, nil
	}
	return 0, fmt.Errorf("datetext: unknown style %q (want gregorian, era or iso)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler, so styles can be read
// straight from TOML.
func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Era is a Japanese imperial era beginning on Start.
type Era struct {
	Name   string
	Romaji string
	Start  time.Time
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Eras lists the modern eras, oldest first.
var Eras = []Era{
	{Name: "明治", Romaji: "Meiji", Start: day(1868, time.October, 23)},
	{Name: "大正", Romaji: "Taisho", Start: day(1912, time.July, 30)},
	{Name: "昭和", Romaji: "Showa", Start: day(1926, time.December, 25)},
	{Name: "平成", Romaji: "Heisei", Start: day(1989, time.January, 8)},
	{Name: "令和", Romaji: "Reiwa", Start: day(2019, time.May, 1)},
}

// EraOf returns the era containing t's calendar date and the year within
// it, counting from 1. ok is false before Meiji.
func EraOf(t time.Time) (era Era, year int, ok bool) {
	d := day(t.Year(), t.Month(), t.Day())
	for i := len(Eras) - 1; i >= 0; i-- {
		if !d.Before(Eras[i].Start) {
			return Eras[i], t.Year() - Eras[i].Start.Year() + 1, true
		}
	}
	return Era{}, 0, false
}

// Format writes t's calendar date in the given style. Dates before Meiji
// have no era and fall back to the Gregorian form.
func Format(t time.Time, s Style) string {
	switch s {
	case StyleISO:
		return t.Format("2006-01-02")
	case StyleEra:
		era, year, ok := EraOf(t)
		if !ok {
			break
		}
		y := "元"
		if year > 1 {
			y = fmt.Sprint(year)
		}
		return fmt.Sprintf("%s%s年%d月%d日", era.Name, y, int(t.Month()), t.Day())
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

var weekdays = [...]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"}

// Weekday returns the Japanese name of t's day of the week, e.g. 月曜日.
func Weekday(t time.Time) string {
	return weekdays[t.Weekday()]
}
