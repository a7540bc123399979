// Package rocdate renders ISO calendar dates in the Republic of China
// (Minguo) calendar used on the printed forms: the civil year minus 1911.
//
// Dates are handled as plain year/month/day triples. Nothing here goes
// through time.Time, so no timezone can shift a day.
package rocdate

import (
	"fmt"
	"strconv"
	"strings"
)

// Offset is subtracted from the civil year to obtain the Minguo year.
const Offset = 1911

// Date is a calendar date split into its numeric parts.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Parse splits an ISO "YYYY-MM-DD" string. Only the shape and the month/day
// ranges are checked; day-of-month validity is left to the input layer.
func Parse(iso string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(iso), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("rocdate.Parse: %q is not YYYY-MM-DD", iso)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("rocdate.Parse: %q: %w", iso, err)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("rocdate.Parse: %q out of range", iso)
	}
	return d, nil
}

// ROCYear returns the Minguo year.
func (d Date) ROCYear() int {
	return d.Year - Offset
}

// Format renders the full date, e.g. 2026-02-15 → "115年2月15日".
func (d Date) Format() string {
	return fmt.Sprintf("%d年%d月%d日", d.ROCYear(), d.Month, d.Day)
}

// FormatYearMonth renders year and month only, e.g. "115年2月".
func (d Date) FormatYearMonth() string {
	return fmt.Sprintf("%d年%d月", d.ROCYear(), d.Month)
}

// Format converts an ISO date; malformed input yields "".
func Format(iso string) string {
	d, err := Parse(iso)
	if err != nil {
		return ""
	}
	return d.Format()
}

// FormatYearMonth converts an ISO date to its year/month label; malformed
// input yields "".
func FormatYearMonth(iso string) string {
	d, err := Parse(iso)
	if err != nil {
		return ""
	}
	return d.FormatYearMonth()
}
