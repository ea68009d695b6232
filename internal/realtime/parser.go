// Package realtime fetches and parses the curlbus live arrivals feed.
package realtime

import (
	"regexp"
	"strings"
)

const maxArrivals = 5

// The feed renders stops as a box-drawn table:
//
//	│ 405 │ Jerusalem CBS │ Egged │ now, 13m │
//
// Cells are delimited by U+2502 (BOX DRAWINGS LIGHT VERTICAL), not the ASCII pipe.
var (
	tableRowRe = regexp.MustCompile(`│\s*(.+?)\s*│\s*(.+?)\s*│\s*(.+?)\s*│\s*(.+?)\s*│`)
	nowMinRe   = regexp.MustCompile(`(\d+)m`)
	minutesRe  = regexp.MustCompile(`(\d+)\s*m(?:in)?`)
	clockRe    = regexp.MustCompile(`(\d{1,2}:\d{2})`)
)

// ParseArrivals extracts arrival display strings from the raw feed text for a
// single route. Only table rows whose first cell equals routeFilter exactly are
// considered. Results are de-duplicated in first-seen order and capped at five.
func ParseArrivals(raw, routeFilter string) []string {
	var arrivals []string

	for _, line := range strings.Split(raw, "\n") {
		m := tableRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		routeCell := strings.TrimSpace(m[1])
		timeCell := strings.TrimSpace(m[4])

		if routeCell != routeFilter {
			continue
		}
		if timeCell == "" || timeCell == "│" {
			continue
		}

		arrivals = append(arrivals, parseTimeCell(timeCell)...)
	}

	return capArrivals(dedupe(arrivals))
}

// parseTimeCell applies the cell grammar: a "now" marker (optionally trailed by
// a countdown), minute countdowns, clock times, or a comma-separated list of
// the first two forms. First matching branch wins.
func parseTimeCell(cell string) []string {
	lower := strings.ToLower(cell)

	switch {
	case strings.Contains(lower, "now"):
		out := []string{"now"}
		if m := nowMinRe.FindStringSubmatch(cell); m != nil {
			out = append(out, m[1]+" min")
		}
		return out

	case minutesRe.MatchString(lower):
		var out []string
		for _, m := range minutesRe.FindAllStringSubmatch(lower, -1) {
			out = append(out, m[1]+" min")
		}
		return out

	case clockRe.MatchString(cell):
		var out []string
		for _, m := range clockRe.FindAllStringSubmatch(cell, -1) {
			out = append(out, m[1])
		}
		return out

	case strings.Contains(cell, ","):
		var out []string
		for _, part := range strings.Split(cell, ",") {
			part = strings.TrimSpace(part)
			partLower := strings.ToLower(part)
			if strings.Contains(partLower, "now") {
				out = append(out, "now")
			} else if minutesRe.MatchString(partLower) {
				for _, m := range minutesRe.FindAllStringSubmatch(partLower, -1) {
					out = append(out, m[1]+" min")
				}
			}
		}
		return out
	}

	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func capArrivals(in []string) []string {
	if len(in) > maxArrivals {
		return in[:maxArrivals]
	}
	return in
}
