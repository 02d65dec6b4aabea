/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ParseGIDDate extracts the calendar date encoded in the leading
// YYYY_MM_DD portion of a game identifier such as
// "2016_04_03_tormlb_tbamlb_1". A leading "gid_" is tolerated.
func ParseGIDDate(gid string) (time.Time, error) {
	gid = strings.TrimPrefix(gid, GIDDirPrefix)
	if len(gid) < 10 {
		return time.Time{}, fmt.Errorf("unable to parse gid date from %q", gid)
	}
	d, err := time.Parse("2006_01_02", gid[:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse gid date from %q: %w",
			gid, err)
	}

	return d, nil
}

// ParseClockOnDate combines a calendar date with a 12 hour wall clock
// reading ("7:05" + "PM") into a single timestamp in UTC.
func ParseClockOnDate(date time.Time, clock string, ampm string) (time.Time,
	error) {

	s := date.Format("20060102") + strings.TrimSpace(clock) +
		strings.ToUpper(strings.TrimSpace(ampm))
	t, err := time.Parse("200601023:04PM", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse clock %q %q: %w",
			clock, ampm, err)
	}

	return t, nil
}
