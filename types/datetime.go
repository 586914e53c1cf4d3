// Copyright Cedar Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"
)

// ErrDatetime is wrapped by all datetime parsing errors.
var ErrDatetime = errors.New("error parsing datetime value")

// maxDatetime is the highest possible timestamp that will fit in 64 bits of millisecond-precision space.
var maxDatetime = time.Date(292278994, 8, 17, 7, 12, 55, 807*1e6, time.UTC)

// minDatetime is the lowest possible timestamp that will fit in 64 bits of millisecond-precision space.
var minDatetime = time.Date(-292275055, 5, 17, 16, 47, 04, 192*1e6, time.UTC)

// Datetime is a Cedar datetime literal: a timestamp with millisecond
// precision.
type Datetime struct {
	// value is a timestamp in milliseconds
	value int64
}

// NewDatetime returns a Datetime from a Go time.Time, truncated to
// millisecond precision.
func NewDatetime(t time.Time) Datetime {
	return Datetime{value: t.UnixMilli()}
}

// NewDatetimeFromMillis returns a Datetime from a count of milliseconds since
// January 1, 1970 @ 00:00:00 UTC.
func NewDatetimeFromMillis(ms int64) Datetime {
	return Datetime{value: ms}
}

func expectChar(s string, c uint8) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("%w: unexpected EOF", ErrDatetime)
	} else if s[0] != c {
		return "", fmt.Errorf("%w: unexpected character %c", ErrDatetime, s[0])
	}
	return s[1:], nil
}

func parseDatetimeUint(s string, chars int, maxValue uint, label string) (uint, string, error) {
	if len(s) < chars {
		return 0, "", fmt.Errorf("%w: unexpected EOF", ErrDatetime)
	}
	v, err := strconv.ParseUint(s[0:chars], 10, 0)
	if err != nil {
		return 0, "", fmt.Errorf("%w: invalid %v", ErrDatetime, label)
	} else if v > uint64(maxValue) {
		return 0, "", fmt.Errorf("%w: %v is greater than %v", ErrDatetime, label, maxValue)
	}
	return uint(v), s[chars:], nil
}

// checkValidDay ensures that the given day is valid for the given month in the given year.
func checkValidDay(year int, month, day uint) error {
	t := time.Date(year, time.Month(month), int(day), 0, 0, 0, 0, time.UTC)

	// Don't allow wrapping: https://github.com/cedar-policy/rfcs/pull/94
	_, tmonth, tday := t.Date()
	if time.Month(month) != tmonth || int(day) != tday {
		return fmt.Errorf("%w: invalid date", ErrDatetime)
	}

	return nil
}

// parseYear parses the year portion of a datetime string, handling both
// standard (4-digit) and expanded (9-digit with sign) formats.
func parseYear(s string) (year int, remaining string, err error) {
	if len(s) == 0 {
		return 0, "", fmt.Errorf("%w: unexpected EOF", ErrDatetime)
	}

	yearSign := 1
	yearLength := 4
	yearMax := uint(9999)

	if s[0] == '+' || s[0] == '-' {
		yearLength = 9
		yearMax = 999999999
		if s[0] == '-' {
			yearSign = -1
		}
		s = s[1:]
	} else if !unicode.IsDigit(rune(s[0])) {
		return 0, "", fmt.Errorf("%w: invalid year", ErrDatetime)
	}

	absYear, s, err := parseDatetimeUint(s, yearLength, yearMax, "year")
	if err != nil {
		return 0, "", err
	}

	return int(absYear) * yearSign, s, nil
}

// parseDate parses month and day from the datetime string.
func parseDate(s string) (month, day uint, remaining string, err error) {
	if s, err = expectChar(s, '-'); err != nil {
		return 0, 0, "", err
	}
	if month, s, err = parseDatetimeUint(s, 2, 12, "month"); err != nil {
		return 0, 0, "", err
	}
	if s, err = expectChar(s, '-'); err != nil {
		return 0, 0, "", err
	}
	if day, s, err = parseDatetimeUint(s, 2, 31, "day"); err != nil {
		return 0, 0, "", err
	}
	return month, day, s, nil
}

// parseTimeComponents parses hour, minute, second from the datetime string.
func parseTimeComponents(s string) (hour, minute, second uint, remaining string, err error) {
	if s, err = expectChar(s, 'T'); err != nil {
		return 0, 0, 0, "", err
	}
	if hour, s, err = parseDatetimeUint(s, 2, 23, "hour"); err != nil {
		return 0, 0, 0, "", err
	}
	if s, err = expectChar(s, ':'); err != nil {
		return 0, 0, 0, "", err
	}
	if minute, s, err = parseDatetimeUint(s, 2, 59, "minute"); err != nil {
		return 0, 0, 0, "", err
	}
	if s, err = expectChar(s, ':'); err != nil {
		return 0, 0, 0, "", err
	}
	if second, s, err = parseDatetimeUint(s, 2, 59, "second"); err != nil {
		return 0, 0, 0, "", err
	}
	return hour, minute, second, s, nil
}

// parseMilliseconds parses optional milliseconds from the datetime string.
func parseMilliseconds(s string) (milli uint, remaining string, err error) {
	if len(s) > 0 && s[0] == '.' {
		milli, s, err = parseDatetimeUint(s[1:], 3, 999, "millisecond")
		if err != nil {
			return 0, "", err
		}
	}
	return milli, s, nil
}

// parseTimezone parses the timezone designator (Z or +/-hhmm) from the datetime string.
func parseTimezone(s string) (offset time.Duration, remaining string, err error) {
	if len(s) == 0 {
		return 0, "", fmt.Errorf("%w: unexpected EOF", ErrDatetime)
	}

	switch s[0] {
	case 'Z':
		return 0, s[1:], nil
	case '+', '-':
		sign := 1
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]

		var hh uint
		if hh, s, err = parseDatetimeUint(s, 2, 23, "offset hours"); err != nil {
			return 0, "", err
		}

		var mm uint
		if mm, s, err = parseDatetimeUint(s, 2, 59, "offset minutes"); err != nil {
			return 0, "", err
		}

		offset = time.Duration(sign) * ((time.Duration(hh) * time.Hour) + (time.Duration(mm) * time.Minute))
		return offset, s, nil
	default:
		return 0, "", fmt.Errorf("%w: invalid time zone designator", ErrDatetime)
	}
}

// ParseDatetime returns a Cedar datetime when the argument provided
// represents a compatible datetime or an error
//
// Cedar RFC 80 defines valid datetime strings as one of:
//
// - "YYYY-MM-DD" (date only, with implied time 00:00:00, UTC)
// - "YYYY-MM-DDThh:mm:ssZ" (date and time, UTC)
// - "YYYY-MM-DDThh:mm:ss.SSSZ" (date and time with millisecond, UTC)
// - "YYYY-MM-DDThh:mm:ss(+/-)hhmm" (date and time, time zone offset)
// - "YYYY-MM-DDThh:mm:ss.SSS(+/-)hhmm" (date and time with millisecond, time zone offset)
//
// Cedar RFC 110 extends this with the ISO 8601 expanded year format, which
// allows a sign and a 9-digit year in any of the above shapes.
func ParseDatetime(s string) (Datetime, error) {
	year, rest, err := parseYear(s)
	if err != nil {
		return Datetime{}, err
	}

	month, day, rest, err := parseDate(rest)
	if err != nil {
		return Datetime{}, err
	}
	if err := checkValidDay(year, month, day); err != nil {
		return Datetime{}, err
	}

	// Date-only format
	if len(rest) == 0 {
		return Datetime{time.Date(year, time.Month(month), int(day), 0, 0, 0, 0, time.UTC).UnixMilli()}, nil
	}

	hour, minute, second, rest, err := parseTimeComponents(rest)
	if err != nil {
		return Datetime{}, err
	}
	if len(rest) == 0 {
		return Datetime{}, fmt.Errorf("%w: unexpected EOF", ErrDatetime)
	}

	milli, rest, err := parseMilliseconds(rest)
	if err != nil {
		return Datetime{}, err
	}

	offset, rest, err := parseTimezone(rest)
	if err != nil {
		return Datetime{}, err
	}
	if len(rest) > 0 {
		return Datetime{}, fmt.Errorf("%w: unexpected additional characters", ErrDatetime)
	}

	t := time.Date(year, time.Month(month), int(day),
		int(hour), int(minute), int(second),
		int(time.Duration(milli)*time.Millisecond), time.UTC).Add(-offset)

	// Check for boundary conditions before calling UnixMilli(), which has
	// undefined behavior outside of these boundaries
	if t.Before(minDatetime) || t.After(maxDatetime) {
		return Datetime{}, fmt.Errorf("%w: timestamp out of range", ErrDatetime)
	}

	return Datetime{value: t.UnixMilli()}, nil
}

func (Datetime) isValue() {}

// String returns an ISO 8601 millisecond precision timestamp.
// For years in [0000, 9999], returns RFC 3339 format: "YYYY-MM-DDThh:mm:ss.SSSZ".
// For years outside that range, returns the expanded year format.
func (d Datetime) String() string {
	t := time.UnixMilli(d.value).UTC()
	year := t.Year()

	if year >= 0 && year <= 9999 {
		return t.Format("2006-01-02T15:04:05.000Z")
	}

	sign := '+'
	if year < 0 {
		sign = '-'
		year = -year
	}

	return fmt.Sprintf("%c%09d-%02d-%02dT%02d:%02d:%02d.%03dZ",
		sign, year, t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6)
}

// Milliseconds returns the number of milliseconds since the Unix epoch.
func (d Datetime) Milliseconds() int64 {
	return d.value
}

// Time returns the UTC time.Time representation of a Datetime.
func (d Datetime) Time() time.Time {
	return time.UnixMilli(d.value).UTC()
}
