// README: Reachability result variant: unavailable, routed, or approximated from a nearby stop.
package reachability

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Unavailable Kind = iota
	Available
	Approximate
)

func (k Kind) String() string {
	switch k {
	case Available:
		return "available"
	case Approximate:
		return "approximate"
	default:
		return "unavailable"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ApproximationNote is attached to results derived from stop proximity.
const ApproximationNote = "Transit information is approximated based on nearby stops."

// Result is one of three shapes selected by Kind. Routed fields are set only
// for Available and stop fields only for Approximate.
type Result struct {
	Kind Kind `json:"kind"`

	DurationMinutes float64  `json:"duration_minutes,omitempty"`
	HasDuration     bool     `json:"-"`
	Modes           []string `json:"transit_types,omitempty"`

	StopName       string   `json:"stop_name,omitempty"`
	StopKinds      []string `json:"stop_kinds,omitempty"`
	DistanceMeters float64  `json:"distance_meters,omitempty"`
}

func unreachable() Result { return Result{Kind: Unavailable} }

func routed(minutes float64, modes []string) Result {
	return Result{Kind: Available, DurationMinutes: minutes, HasDuration: minutes > 0, Modes: modes}
}

func approximated(name string, kinds []string, meters float64) Result {
	return Result{Kind: Approximate, StopName: name, StopKinds: kinds, DistanceMeters: meters}
}

// Reachable reports whether the result is anything but Unavailable.
func (r Result) Reachable() bool { return r.Kind != Unavailable }

// Summary renders the result for prompts and API responses.
func (r Result) Summary() string {
	switch r.Kind {
	case Available:
		s := "Reachable by public transit"
		if r.HasDuration {
			s += fmt.Sprintf(" in about %.0f min", r.DurationMinutes)
		}
		if len(r.Modes) > 0 {
			s += " via " + strings.Join(r.Modes, ", ")
		}
		return s
	case Approximate:
		s := fmt.Sprintf("Nearest stop %s, %dm away", r.StopName, int(r.DistanceMeters))
		if len(r.StopKinds) > 0 {
			s += " (" + strings.Join(r.StopKinds, ", ") + ")"
		}
		return s + ". " + ApproximationNote
	default:
		return "No public transit found nearby"
	}
}
