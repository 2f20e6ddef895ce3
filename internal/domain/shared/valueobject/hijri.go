package valueobject

import (
	"fmt"
	"time"
)

// HijriDate is a date in the tabular Islamic (civil) calendar. The tabular
// calendar is arithmetic, not observational, so it may differ by a day from
// locally sighted dates; it is sufficient for labelling Hawl anniversaries,
// which are tracked in Gregorian time internally.
type HijriDate struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1..12
	Day   int `json:"day"`   // 1..30
}

// hijriMonthNames uses the common romanized month names.
var hijriMonthNames = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
}

// HijriFromTime converts a Gregorian time to its tabular Hijri date.
func HijriFromTime(t time.Time) HijriDate {
	y, m, d := t.UTC().Date()
	jdn := gregorianToJDN(y, int(m), d)

	// Tabular (Fatimid civil) conversion, epoch JDN 1948440.
	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * l) / 709
	day := l - (709*month)/24
	year := 30*n + j - 30

	return HijriDate{Year: year, Month: month, Day: day}
}

// gregorianToJDN returns the Julian day number for a Gregorian calendar date.
func gregorianToJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// MonthName returns the romanized name of the Hijri month.
func (h HijriDate) MonthName() string {
	if h.Month < 1 || h.Month > 12 {
		return ""
	}
	return hijriMonthNames[h.Month-1]
}

// String formats the date as "14 Ramadan 1445 AH".
func (h HijriDate) String() string {
	return fmt.Sprintf("%d %s %d AH", h.Day, h.MonthName(), h.Year)
}

// Compact formats the date as "1445-09-14".
func (h HijriDate) Compact() string {
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, h.Month, h.Day)
}

// IsZero reports whether the date is the zero value.
func (h HijriDate) IsZero() bool {
	return h.Year == 0 && h.Month == 0 && h.Day == 0
}
