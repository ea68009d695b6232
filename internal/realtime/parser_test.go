package realtime

import (
	"reflect"
	"strings"
	"testing"
)

// row builds a box-drawn table row the way the feed renders them.
func row(cells ...string) string {
	return "│ " + strings.Join(cells, " │ ") + " │"
}

func TestParseArrivalsFiltersByRoute(t *testing.T) {
	raw := strings.Join([]string{
		"Rehov Yafo/Central Station",
		row("405", "Jerusalem CBS", "Egged", "13 min, 28 min"),
		row("480", "Tel Aviv 2000", "Egged", "5 min"),
		row("405", "Jerusalem CBS", "Egged", "45 min"),
	}, "\n")

	got := ParseArrivals(raw, "405")
	want := []string{"13 min", "28 min", "45 min"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrivals = %v, want %v", got, want)
	}

	if got := ParseArrivals(raw, "999"); got != nil {
		t.Errorf("arrivals for unknown route = %v, want none", got)
	}
}

func TestParseArrivalsExactRouteMatch(t *testing.T) {
	raw := row("405א", "Jerusalem", "Egged", "7 min")

	// No fuzzy matching on the route cell.
	if got := ParseArrivals(raw, "405"); got != nil {
		t.Errorf("arrivals = %v, want none for partial route match", got)
	}
	if got := ParseArrivals(raw, "405א"); len(got) != 1 || got[0] != "7 min" {
		t.Errorf("arrivals = %v, want [7 min]", got)
	}
}

func TestParseArrivalsNow(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []string
	}{
		{"bare now", "now", []string{"now"}},
		{"now with countdown", "now, 3m", []string{"now", "3 min"}},
		{"uppercase now", "NOW", []string{"now"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseArrivals(row("18", "Haifa", "Egged", tc.cell), "18")
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("arrivals = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseArrivalsClockTimes(t *testing.T) {
	got := ParseArrivals(row("89", "Tel Aviv", "Dan", "17:45 19:02"), "89")
	want := []string{"17:45", "19:02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrivals = %v, want %v", got, want)
	}
}

func TestParseArrivalsNowIgnoresUnparseableParts(t *testing.T) {
	got := ParseArrivals(row("89", "Tel Aviv", "Dan", "now, soon"), "89")
	want := []string{"now"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrivals = %v, want %v", got, want)
	}
}

func TestParseArrivalsDeduplicates(t *testing.T) {
	raw := strings.Join([]string{
		row("405", "Jerusalem", "Egged", "13 min"),
		row("405", "Jerusalem", "Egged", "13 min"),
		row("405", "Jerusalem", "Egged", "28 min"),
	}, "\n")

	got := ParseArrivals(raw, "405")
	want := []string{"13 min", "28 min"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrivals = %v, want %v", got, want)
	}
}

func TestParseArrivalsCap(t *testing.T) {
	rows := []string{
		row("405", "a", "b", "1 min"),
		row("405", "a", "b", "2 min"),
		row("405", "a", "b", "3 min"),
		row("405", "a", "b", "4 min"),
		row("405", "a", "b", "5 min"),
		row("405", "a", "b", "6 min"),
		row("405", "a", "b", "7 min"),
	}

	got := ParseArrivals(strings.Join(rows, "\n"), "405")
	want := []string{"1 min", "2 min", "3 min", "4 min", "5 min"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrivals = %v, want %v", got, want)
	}
}

func TestParseArrivalsIgnoresMalformedRows(t *testing.T) {
	raw := strings.Join([]string{
		"│ 405 │ missing cells │",
		"plain text mentioning 405",
		row("405", "Jerusalem", "Egged", ""),
		row("405", "Jerusalem", "Egged", "8 min"),
	}, "\n")

	got := ParseArrivals(raw, "405")
	want := []string{"8 min"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("arrivals = %v, want %v", got, want)
	}
}
