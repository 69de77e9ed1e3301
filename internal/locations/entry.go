package locations

import "strings"

// Entry is one centre's location-relevant projection, snapshotted from the
// persistence layer. Entries are immutable after creation; the index
// discards and rebuilds them wholesale on refresh, never patches them.
type Entry struct {
	CentreID   int
	CentreName string
	Slug       string
	Suburb     *string
	City       *string
	State      *string
	Postcode   *string
	Latitude   *float64
	Longitude  *float64
}

// HasCoordinates reports whether the entry carries a usable coordinate
// pair. Normalization guarantees latitude and longitude are either both
// present or both absent.
func (e *Entry) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// NormalizeCoordinates enforces the coordinate invariants: a pair is
// either both present and in range, or both absent. A lone latitude or
// longitude, or any value outside [-90,90] / [-180,180], drops the whole
// pair. Fail soft: bad coordinates exclude the entry from radius search
// but never from text search.
func (e *Entry) NormalizeCoordinates() {
	if e.Latitude == nil || e.Longitude == nil {
		e.Latitude = nil
		e.Longitude = nil
		return
	}
	if *e.Latitude < -90 || *e.Latitude > 90 || *e.Longitude < -180 || *e.Longitude > 180 {
		e.Latitude = nil
		e.Longitude = nil
	}
}

// suburbLower returns the lower-cased suburb, or "" when absent.
func (e *Entry) suburbLower() string {
	if e.Suburb == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*e.Suburb))
}

// cityLower returns the lower-cased city, or "" when absent.
func (e *Entry) cityLower() string {
	if e.City == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*e.City))
}

// stateUpper returns the upper-cased state code, or "" when absent.
func (e *Entry) stateUpper() string {
	if e.State == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*e.State))
}

// postcodeInt parses the postcode as an integer, returning ok=false for
// absent or non-numeric postcodes.
func (e *Entry) postcodeInt() (int, bool) {
	if e.Postcode == nil {
		return 0, false
	}
	pc := strings.TrimSpace(*e.Postcode)
	if pc == "" {
		return 0, false
	}
	n := 0
	for _, r := range pc {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
