// Package birthday implements the month/day arithmetic used for birthday reminders. All
// calculations use a fixed calendar of 365 days; February always has 28 days.
package birthday

import (
	"encoding/json"
	"fmt"
	"time"
)

// DaysInYear is the length of the fixed calendar.
const DaysInYear = 365

// daysInMonth holds the number of days for the months January to December.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Birthday is a month and day without a year. The zero value is not a valid birthday; use New.
type Birthday struct {
	month int
	day   int
}

// New returns the birthday for the given month and day.
//
// Invalid input never fails. A month outside 1..12 is replaced by January. Afterwards, a day
// that does not exist in the (possibly replaced) month is replaced by the 1st. So New(13, 40)
// is January 1st, while New(0, 15) is January 15th.
func New(month int, day int) Birthday {
	if month < 1 || month > 12 {
		month = 1
	}
	if day < 1 || day > DaysInMonth(month) {
		day = 1
	}
	return Birthday{month: month, day: day}
}

// DaysInMonth returns the number of days of a month in the fixed calendar, or 0 if the month
// is not within 1..12.
func DaysInMonth(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return daysInMonth[month-1]
}

// Month returns the month, 1 to 12.
func (b Birthday) Month() int {
	return b.month
}

// Day returns the day of the month.
func (b Birthday) Day() int {
	return b.day
}

// IsZero reports whether b was never set by New.
func (b Birthday) IsZero() bool {
	return b.month == 0
}

// WithDay returns a copy of the birthday with another day of the same month. If the day does
// not exist in the month, the birthday is returned unchanged.
//
// Unlike New, an invalid day is not replaced by the 1st.
// TODO: ask the product owner whether WithDay should fall back to the 1st like New does.
func (b Birthday) WithDay(day int) Birthday {
	if day >= 1 && day <= DaysInMonth(b.month) {
		b.day = day
	}
	return b
}

// DayInYear returns the ordinal of a month and day, counting January 1st as 1 and December 31st
// as 365. The values are not validated.
func DayInYear(month int, day int) int {
	ordinal := day
	for m := 1; m < month && m <= 12; m++ {
		ordinal += daysInMonth[m-1]
	}
	return ordinal
}

// DayInYear returns the ordinal of the birthday within the fixed calendar.
func (b Birthday) DayInYear() int {
	return DayInYear(b.month, b.day)
}

// DaysUntil returns the number of days from today until the birthday occurs next. Only the
// month and day of today are used. A birthday that is today yields 0; a birthday that has
// already passed this year wraps into the next one.
func (b Birthday) DaysUntil(today time.Time) int {
	todayOrdinal := DayInYear(int(today.Month()), today.Day())
	birthdayOrdinal := b.DayInYear()
	if birthdayOrdinal >= todayOrdinal {
		return birthdayOrdinal - todayOrdinal
	}
	return DaysInYear - todayOrdinal + birthdayOrdinal
}

// String returns the birthday in the form "[ 6/29 ]".
func (b Birthday) String() string {
	return fmt.Sprintf("[ %d/%d ]", b.month, b.day)
}

// jsonBirthday is the wire form of a birthday.
type jsonBirthday struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// MarshalJSON encodes the birthday as {"month": 6, "day": 29}.
func (b Birthday) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonBirthday{Month: b.month, Day: b.day})
}

// UnmarshalJSON decodes a birthday. Out-of-range values are normalized the same way as in New.
func (b *Birthday) UnmarshalJSON(data []byte) error {
	var decoded jsonBirthday
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*b = New(decoded.Month, decoded.Day)
	return nil
}
