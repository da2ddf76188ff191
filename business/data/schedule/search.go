package schedule

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// StopDistance is a stop and its distance from a queried location
type StopDistance struct {
	Stop       *Stop   `json:"stop"`
	DistanceKm float64 `json:"distanceKm"`
}

// StopsNamed returns stops whose display name is name. When fuzzy is set, stops whose search key,
// or whose alias, contains name as a whole word (case insensitive) are also returned.
// Results are ordered by name and id
func (s *Store) StopsNamed(name string, fuzzy bool) []*Stop {
	found := make(map[string]*Stop)
	for _, stop := range s.stopsByName[name] {
		found[stop.Id] = stop
	}
	if fuzzy {
		needle := SearchKey(name)
		if len(needle) > 0 {
			for stopName, stops := range s.stopsByName {
				if !s.fuzzyMatch(stopName, stops[0].SearchKey, needle) {
					continue
				}
				for _, stop := range stops {
					found[stop.Id] = stop
				}
			}
		}
	}
	result := make([]*Stop, 0, len(found))
	for _, stop := range found {
		result = append(result, stop)
	}
	sortStops(result)
	return result
}

func (s *Store) fuzzyMatch(stopName string, searchKey string, needle string) bool {
	if containsWord(searchKey, needle) {
		return true
	}
	alias, ok := s.aliases.Alias(stopName)
	return ok && containsWord(SearchKey(alias), needle)
}

// containsWord returns true if needle occurs in haystack delimited by non alphanumeric runes or the ends of haystack
func containsWord(haystack string, needle string) bool {
	if len(needle) == 0 {
		return false
	}
	offset := 0
	for {
		i := strings.Index(haystack[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)
		if isWordBoundary(haystack, start, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
}

func isWordBoundary(s string, start int, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(before) {
			return false
		}
	}
	if end < len(s) {
		after, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(after) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ClosestStops returns up to n stops ordered by increasing distance from location.
// Stops further than withinKm are excluded when withinKm is positive. n < 1 returns no stops
func (s *Store) ClosestStops(location geo.LatLng, n int, withinKm float64) []StopDistance {
	if n < 1 {
		return []StopDistance{}
	}
	candidates := make([]StopDistance, 0, len(s.stops))
	for _, stop := range s.stops {
		d := geo.Distance(location, stop.Location)
		if withinKm > 0 && d > withinKm {
			continue
		}
		candidates = append(candidates, StopDistance{Stop: stop, DistanceKm: d})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].Stop.Id < candidates[j].Stop.Id
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// ClosestStop returns the stop nearest to location, nil if none is within withinKm
func (s *Store) ClosestStop(location geo.LatLng, withinKm float64) *StopDistance {
	closest := s.ClosestStops(location, 1, withinKm)
	if len(closest) == 0 {
		return nil
	}
	return &closest[0]
}
