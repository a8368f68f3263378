package models

import (
	"fmt"
	"time"
)

// Age is a calendar difference between two dates.
type Age struct {
	Years  int
	Months int
	Days   int
}

// AgeAt computes the age on today of someone born on birth.
//
// Negative days borrow the length of the month before today's month (and the one before that when
// the birth day exceeds that month's length); negative months borrow a year.
func AgeAt(birth, today Date) Age {
	years := today.Year - birth.Year
	months := int(today.Month) - int(birth.Month)
	days := today.Day - birth.Day

	for back := 1; days < 0; back++ {
		months--
		days += daysInMonthBefore(today, back)
	}

	if months < 0 {
		years--
		months += 12
	}

	return Age{Years: years, Months: months, Days: days}
}

// daysInMonthBefore is the length of the calendar month n months before d's month.
func daysInMonthBefore(d Date, n int) int {
	return time.Date(d.Year, d.Month-time.Month(n)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String renders the age in the form stored on records, e.g. "13 tahun 11 bulan 29 hari".
func (a Age) String() string {
	return fmt.Sprintf("%d tahun %d bulan %d hari", a.Years, a.Months, a.Days)
}
