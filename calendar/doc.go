// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package calendar validates civil dates and converts them to epoch milliseconds.

# Validation

A Date is checked in a fixed order and the first defect wins:

	day == 0            → ErrInvalidDay
	month outside 1..12 → ErrInvalidMonth
	day > days in month → ErrInvalidDay (February honours leap years)
	hour > 23           → ErrInvalidHour
	minute > 59         → ErrInvalidMinute
	second > 59         → ErrInvalidSecond

All of them are *DateError values, so callers can match the whole family:

	var dateErr *calendar.DateError
	if errors.As(err, &dateErr) { ... }

# Conversion

ToEpochMillis counts days with integer arithmetic (years re-based so March
starts the year), subtracts the day number of 1970-01-01 and scales to
milliseconds. Every step saturates: dates before the epoch collapse their day
count to zero instead of wrapping.

	ms := calendar.ToEpochMillis(calendar.Date{Day: 12, Month: 10, Year: 2001, Hour: 20, Minute: 30})
*/
package calendar
