// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"fmt"
	"math"
	"math/bits"
)

// DateError reports the first invalid field of a Date
type DateError struct {
	Field string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

var (
	ErrInvalidDay    = &DateError{Field: "day"}
	ErrInvalidMonth  = &DateError{Field: "month"}
	ErrInvalidHour   = &DateError{Field: "hour"}
	ErrInvalidMinute = &DateError{Field: "minute"}
	ErrInvalidSecond = &DateError{Field: "second"}
)

// Date is a civil date and time of day. It is a value type and never mutated.
type Date struct {
	Day    uint8  `json:"day"`
	Month  uint8  `json:"month"`
	Year   uint32 `json:"year"`
	Hour   uint8  `json:"hour"`
	Minute uint8  `json:"minute"`
	Second uint8  `json:"second"`
}

// Day number of 1970-01-01 in the counting scheme used by ToEpochMillis
const epochDay = 2472692

// Days elapsed before the first of each month in a non-leap year
var daysBeforeMonth = [12]uint64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// IsLeapYear reports whether year has a February 29th
func IsLeapYear(year uint32) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days of month in year, or 0 for a month
// outside 1..12.
func DaysInMonth(month uint8, year uint32) uint8 {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// Validate returns the first defect found in d, or nil.
func (d Date) Validate() error {
	if d.Day == 0 {
		return ErrInvalidDay
	}
	limit := DaysInMonth(d.Month, d.Year)
	if limit == 0 {
		return ErrInvalidMonth
	}
	if d.Day > limit {
		return ErrInvalidDay
	}
	if d.Hour > 23 {
		return ErrInvalidHour
	}
	if d.Minute > 59 {
		return ErrInvalidMinute
	}
	if d.Second > 59 {
		return ErrInvalidSecond
	}
	return nil
}

// ToEpochMillis converts d to milliseconds since 1970-01-01T00:00:00.
// d is expected to be valid; dates before the epoch lose their day count.
func (d Date) ToEpochMillis() uint64 {
	day := uint64(d.Day)
	month := uint64(d.Month)
	year := uint64(d.Year)

	shifted := satAdd(year, 4800)
	// January and February count against the previous year so the leap day
	// lands at the end of the counting year.
	leapBase := shifted
	if month <= 2 {
		leapBase = satSub(leapBase, 1)
	}
	leapDays := satAdd(satSub(satAdd(1, leapBase/4), leapBase/100), leapBase/400)

	monthIdx := satSub(month, 1)
	if monthIdx > 11 {
		monthIdx = 11
	}

	days := satMul(shifted, 365)
	days = satAdd(days, leapDays)
	days = satAdd(days, daysBeforeMonth[monthIdx])
	days = satSub(satAdd(days, day), 1)

	seconds := satMul(satSub(days, epochDay), 86400)
	seconds = satAdd(seconds, satMul(uint64(d.Hour), 3600))
	seconds = satAdd(seconds, satMul(uint64(d.Minute), 60))
	seconds = satAdd(seconds, uint64(d.Second))
	return satMul(seconds, 1000)
}

// IsBeforeOrAt reports whether d falls at or before the instant epochMillis.
func (d Date) IsBeforeOrAt(epochMillis uint64) bool {
	return d.ToEpochMillis() <= epochMillis
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

func satAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func satSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

func satMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
