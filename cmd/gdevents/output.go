/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mikeb26/gamedayevents/gameday"
)

// rowWriter emits rows either as JSON lines or as aligned key=value text.
type rowWriter struct {
	format string
	w      io.Writer
	enc    *json.Encoder
}

func newRowWriter(format string, w io.Writer) *rowWriter {
	return &rowWriter{format: format, w: w, enc: json.NewEncoder(w)}
}

func (rw *rowWriter) Write(rows []gameday.Row) error {
	for _, r := range rows {
		var err error
		if rw.format == "text" {
			_, err = fmt.Fprintln(rw.w, formatText(r))
		} else {
			err = rw.enc.Encode(r)
		}
		if err != nil {
			return fmt.Errorf("unable to write %v row: %w", r.Table, err)
		}
	}
	return nil
}

func formatText(r gameday.Row) string {
	keys := make([]string, 0, len(r.Columns))
	for k := range r.Columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s", r.Table)
	for _, k := range keys {
		v := r.Columns[k]
		switch tv := v.(type) {
		case nil:
			continue
		case time.Time:
			v = tv.Format(time.RFC3339)
		case string:
			if strings.ContainsAny(tv, " \t") {
				v = fmt.Sprintf("%q", strings.TrimSpace(tv))
			}
		}
		fmt.Fprintf(&sb, " %v=%v", k, v)
	}
	return sb.String()
}
