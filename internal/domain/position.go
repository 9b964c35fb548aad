package domain

import (
	"fmt"
	"strings"
)

// Position is the playing position of a player and the fixed type of a roster slot.
// Values match the feed's element_type (1=GK, 2=DEF, 3=MID, 4=FWD).
type Position int

const (
	PositionGK  Position = 1
	PositionDEF Position = 2
	PositionMID Position = 3
	PositionFWD Position = 4
)

// Positions lists every position in feed order
var Positions = []Position{PositionGK, PositionDEF, PositionMID, PositionFWD}

// Squad shape constants
const (
	SquadSize       = 15
	StarterCount    = 11
	BenchCount      = SquadSize - StarterCount
	MaxPerClub      = 3
	InitialBank     = 1000 // 100.0 in tenths
	ActiveClubCount = 16
)

// squadQuota is the number of squad members per position across all 15 slots
var squadQuota = map[Position]int{
	PositionGK:  2,
	PositionDEF: 5,
	PositionMID: 5,
	PositionFWD: 3,
}

// starterRange is the inclusive [min, max] number of starters per position
var starterRange = map[Position][2]int{
	PositionGK:  {1, 1},
	PositionDEF: {3, 5},
	PositionMID: {2, 5},
	PositionFWD: {1, 3},
}

// Valid reports whether p is one of the four known positions
func (p Position) Valid() bool {
	return p >= PositionGK && p <= PositionFWD
}

// SquadQuota returns how many squad members of this position a full roster holds
func (p Position) SquadQuota() int {
	return squadQuota[p]
}

// StarterRange returns the inclusive bounds on starters of this position
func (p Position) StarterRange() (lo, hi int) {
	r := starterRange[p]
	return r[0], r[1]
}

// String returns the short code used on the wire (GK, DEF, MID, FWD)
func (p Position) String() string {
	switch p {
	case PositionGK:
		return "GK"
	case PositionDEF:
		return "DEF"
	case PositionMID:
		return "MID"
	case PositionFWD:
		return "FWD"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Label returns the display label (GKP, DEF, MID, FWD)
func (p Position) Label() string {
	if p == PositionGK {
		return "GKP"
	}
	return p.String()
}

// ParsePosition accepts the short code, the display label, or the numeric element type
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GKP", "1":
		return PositionGK, nil
	case "DEF", "2":
		return PositionDEF, nil
	case "MID", "3":
		return PositionMID, nil
	case "FWD", "4":
		return PositionFWD, nil
	}
	return 0, fmt.Errorf("invalid position %q", s)
}

// MarshalText encodes the position as its short code
func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid position %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a short code, label or numeric element type
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
