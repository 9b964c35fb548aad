package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlayerStatus is the availability flag published by the feed
type PlayerStatus string

const (
	StatusActive      PlayerStatus = "a"
	StatusDoubtful    PlayerStatus = "d"
	StatusUnavailable PlayerStatus = "u"
)

// ParsePlayerStatus maps the feed's status letter onto the three states the engine knows.
// Anything other than "a" or "d" (injured, suspended, left the club) counts as unavailable.
func ParsePlayerStatus(s string) PlayerStatus {
	switch s {
	case "a":
		return StatusActive
	case "d":
		return StatusDoubtful
	default:
		return StatusUnavailable
	}
}

// Player is a single entry of the player feed. Immutable once loaded for a session.
// Cost is in tenths of the currency unit; ExpectedPoints keeps the feed's decimal string.
type Player struct {
	ID               int             `json:"id"`
	FirstName        string          `json:"firstName"`
	SecondName       string          `json:"secondName"`
	WebName          string          `json:"webName"`
	ClubID           int             `json:"clubId"`
	Position         Position        `json:"position"`
	Cost             int             `json:"cost"`
	ExpectedPoints   decimal.Decimal `json:"expectedPoints"`
	Status           PlayerStatus    `json:"status"`
	News             string          `json:"news,omitempty"`
	ChanceOfPlaying  *int            `json:"chanceOfPlaying,omitempty"`
	Form             decimal.Decimal `json:"form"`
	PointsPerGame    decimal.Decimal `json:"pointsPerGame"`
	OwnershipPercent decimal.Decimal `json:"ownershipPercent"`
	TotalPoints      int             `json:"totalPoints"`
	Minutes          int             `json:"minutes"`
	GoalsScored      int             `json:"goalsScored"`
	Assists          int             `json:"assists"`
	YellowCards      int             `json:"yellowCards"`
	RedCards         int             `json:"redCards"`
}

// EP returns expected points as a float, the unit every optimisation works in
func (p *Player) EP() float64 {
	return p.ExpectedPoints.InexactFloat64()
}

// IsActive reports whether the player can be picked by the scout and wildcard searches
func (p *Player) IsActive() bool {
	return p.Status == StatusActive
}

// Club is a team in the league. Only ID matters to the engine (ownership cap grouping).
type Club struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Strength    int    `json:"strength"`
	Unavailable bool   `json:"unavailable,omitempty"`
}

// Fixture is a scheduled or played match between two clubs
type Fixture struct {
	ID             int        `json:"id"`
	Gameweek       *int       `json:"gameweek,omitempty"`
	HomeClubID     int        `json:"homeClubId"`
	AwayClubID     int        `json:"awayClubId"`
	HomeScore      *int       `json:"homeScore,omitempty"`
	AwayScore      *int       `json:"awayScore,omitempty"`
	HomeDifficulty int        `json:"homeDifficulty"`
	AwayDifficulty int        `json:"awayDifficulty"`
	KickoffTime    *time.Time `json:"kickoffTime,omitempty"`
	Finished       bool       `json:"finished"`
	Started        bool       `json:"started"`
}

// FormatCost renders a cost in tenths as currency, e.g. 55 -> "5.5m"
func FormatCost(tenths int) string {
	return decimal.New(int64(tenths), -1).StringFixed(1) + "m"
}
