package formatter

import (
	"fmt"
	"time"
)

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var weekdays = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// MonthName returns the Indonesian name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return months[m-1]
}

// WeekdayName returns the Indonesian name of d.
func WeekdayName(d time.Weekday) string {
	return weekdays[d]
}

// LongDate formats t as "02 Januari 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), MonthName(t.Month()), t.Year())
}

// ClockText formats t as "Senin, 14 Mei 2024 - 10:00:00".
func ClockText(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d - %s", WeekdayName(t.Weekday()), t.Day(), MonthName(t.Month()), t.Year(), t.Format("15:04:05"))
}

// PrintedAt formats t as "14/05/2024, 10.00.00".
func PrintedAt(t time.Time) string {
	return t.Format("02/01/2006, 15.04.05")
}
