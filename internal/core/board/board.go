// Package board defines the identifiers shared across the round engine:
// tokens, tracks, and placements.
package board

// TokenID identifies a pickable item. Values are opaque and come from
// configuration.
type TokenID string

// TrackID identifies a placement slot. Every track belongs to exactly one
// side of the board.
type TrackID string

// Side identifies which half of the board a track belongs to.
type Side int

const (
	// SideUnspecified indicates no side was provided.
	SideUnspecified Side = iota
	// SideLeft selects the left track group.
	SideLeft
	// SideRight selects the right track group.
	SideRight
)

// String returns the lowercase name of the side.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unspecified"
	}
}

// Placement pairs a token with the track it sits on. The zero value means
// no placement has been recorded.
type Placement struct {
	Token TokenID
	Track TrackID
}

// IsZero reports whether the placement is still unset.
func (p Placement) IsZero() bool {
	return p.Token == "" && p.Track == ""
}
