/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"
	"time"
)

func TestParseDateOrZero(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "", want: time.Time{}},
		{in: "null", want: time.Time{}},
		{in: "2016/04/03", want: time.Date(2016, 4, 3, 0, 0, 0, 0, time.UTC)},
		{in: "2016/04/03 13:05", want: time.Date(2016, 4, 3, 13, 5, 0, 0, time.UTC)},
		{in: "not a date", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseDateOrZero(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("ParseDateOrZero(%q) expected error", c.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateOrZero(%q) unexpected error: %v", c.in, err)
			}
			if !got.Equal(c.want) {
				t.Errorf("ParseDateOrZero(%q) = %v; want %v", c.in, got, c.want)
			}
		})
	}
}

func TestParseGIDDate(t *testing.T) {
	want := time.Date(2016, 4, 3, 0, 0, 0, 0, time.UTC)
	for _, gid := range []string{"2016_04_03_tormlb_tbamlb_1", "gid_2016_04_03_tormlb_tbamlb_1"} {
		got, err := ParseGIDDate(gid)
		if err != nil {
			t.Fatalf("ParseGIDDate(%q) unexpected error: %v", gid, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseGIDDate(%q) = %v; want %v", gid, got, want)
		}
	}

	for _, gid := range []string{"", "2016", "20xx_04_03_tormlb"} {
		if _, err := ParseGIDDate(gid); err == nil {
			t.Errorf("ParseGIDDate(%q) expected error", gid)
		}
	}
}

func TestParseClockOnDate(t *testing.T) {
	date := time.Date(2016, 4, 3, 0, 0, 0, 0, time.UTC)

	got, err := ParseClockOnDate(date, "7:05", "pm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2016, 4, 3, 19, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseClockOnDate = %v; want %v", got, want)
	}

	got, err = ParseClockOnDate(date, "12:10", "AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = time.Date(2016, 4, 3, 0, 10, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseClockOnDate = %v; want %v", got, want)
	}

	if _, err := ParseClockOnDate(date, "TBD", ""); err == nil {
		t.Errorf("ParseClockOnDate(TBD) expected error")
	}
}
