// Package format turns Radarr records into display strings and
// classifications. Every function is pure and total: malformed input yields a
// degraded display value, never an error.
package format

import (
	"time"

	"github.com/five82/reel/internal/radarr"
)

// Color is a semantic color name resolved against the active theme.
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorGray   Color = "gray"
	ColorBlue   Color = "blue"
)

// AvailabilityKind classifies a movie against its release dates.
type AvailabilityKind int

const (
	NotReleased AvailabilityKind = iota
	Upcoming
	Missing
	Available
)

func (k AvailabilityKind) String() string {
	switch k {
	case Upcoming:
		return "Upcoming"
	case Missing:
		return "Missing"
	case Available:
		return "Available"
	default:
		return "Not Released"
	}
}

// AvailabilityStatus is the display classification of a movie.
type AvailabilityStatus struct {
	Kind  AvailabilityKind
	Label string
	Color Color
	// Date is the release date the classification used, nil when none is known.
	Date *time.Time
	// DateKind names which release Date refers to.
	DateKind string
}

// ReleaseDate returns the first known release date in the order cinema,
// digital, physical, together with its name.
func ReleaseDate(m radarr.Movie) (*time.Time, string) {
	switch {
	case m.InCinemas != nil:
		return m.InCinemas, "In Cinemas"
	case m.DigitalRelease != nil:
		return m.DigitalRelease, "Digital"
	case m.PhysicalRelease != nil:
		return m.PhysicalRelease, "Physical"
	}
	return nil, ""
}

// Availability classifies m at now. A file on disk wins over any date. A
// released, unmonitored movie without a file is Missing but rendered gray
// with an "Unmonitored" label.
func Availability(m radarr.Movie, now time.Time) AvailabilityStatus {
	date, kind := ReleaseDate(m)
	status := AvailabilityStatus{Date: date, DateKind: kind}

	switch {
	case m.HasFile:
		status.Kind, status.Label, status.Color = Available, Available.String(), ColorGreen
	case date == nil:
		status.Kind, status.Label, status.Color = NotReleased, NotReleased.String(), ColorGray
	case date.After(now):
		status.Kind, status.Label, status.Color = Upcoming, Upcoming.String(), ColorYellow
	case !m.Monitored:
		status.Kind, status.Label, status.Color = Missing, "Unmonitored", ColorGray
	default:
		status.Kind, status.Label, status.Color = Missing, Missing.String(), ColorRed
	}
	return status
}
