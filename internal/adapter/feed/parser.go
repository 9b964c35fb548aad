// Package feed reads the league's public bootstrap and fixtures documents into a catalog.
package feed

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// ErrMalformedFeed is returned when a document is not the JSON shape the feed publishes
var ErrMalformedFeed = errors.New("malformed feed document")

// defaultEP stands in for a missing or empty ep_next
const defaultEP = "0.0"

// Bootstrap is the parsed bootstrap-static document.
// Clubs flagged unavailable and their players are already removed.
type Bootstrap struct {
	Players []domain.Player
	Clubs   []domain.Club

	DroppedClubs   int
	DroppedPlayers int
}

// ParseBootstrap parses the bootstrap-static document.
// Logic:
//  1. Clubs with unavailable=true are dropped, then every player of a dropped club
//  2. A missing or empty ep_next becomes "0.0"
//  3. Status letters map onto active / doubtful / unavailable
//  4. Players with an unknown element_type are dropped
func ParseBootstrap(data []byte) (*Bootstrap, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: bootstrap is not valid JSON", ErrMalformedFeed)
	}
	doc := gjson.ParseBytes(data)
	teams, elements := doc.Get("teams"), doc.Get("elements")
	if !teams.IsArray() || !elements.IsArray() {
		return nil, fmt.Errorf("%w: bootstrap needs teams and elements arrays", ErrMalformedFeed)
	}

	b := &Bootstrap{}
	activeClubs := make(map[int]bool)
	teams.ForEach(func(_, t gjson.Result) bool {
		if t.Get("unavailable").Bool() {
			b.DroppedClubs++
			return true
		}
		club := domain.Club{
			ID:        int(t.Get("id").Int()),
			Name:      t.Get("name").String(),
			ShortName: t.Get("short_name").String(),
			Strength:  int(t.Get("strength").Int()),
		}
		activeClubs[club.ID] = true
		b.Clubs = append(b.Clubs, club)
		return true
	})

	elements.ForEach(func(_, e gjson.Result) bool {
		pos := domain.Position(e.Get("element_type").Int())
		if !activeClubs[int(e.Get("team").Int())] || !pos.Valid() {
			b.DroppedPlayers++
			return true
		}
		b.Players = append(b.Players, parsePlayer(e, pos))
		return true
	})

	return b, nil
}

func parsePlayer(e gjson.Result, pos domain.Position) domain.Player {
	ep := e.Get("ep_next").String()
	if ep == "" {
		ep = defaultEP
	}

	p := domain.Player{
		ID:               int(e.Get("id").Int()),
		FirstName:        e.Get("first_name").String(),
		SecondName:       e.Get("second_name").String(),
		WebName:          e.Get("web_name").String(),
		ClubID:           int(e.Get("team").Int()),
		Position:         pos,
		Cost:             int(e.Get("now_cost").Int()),
		ExpectedPoints:   parseDecimal(ep),
		Status:           domain.ParsePlayerStatus(e.Get("status").String()),
		News:             e.Get("news").String(),
		Form:             parseDecimal(e.Get("form").String()),
		PointsPerGame:    parseDecimal(e.Get("points_per_game").String()),
		OwnershipPercent: parseDecimal(e.Get("selected_by_percent").String()),
		TotalPoints:      int(e.Get("total_points").Int()),
		Minutes:          int(e.Get("minutes").Int()),
		GoalsScored:      int(e.Get("goals_scored").Int()),
		Assists:          int(e.Get("assists").Int()),
		YellowCards:      int(e.Get("yellow_cards").Int()),
		RedCards:         int(e.Get("red_cards").Int()),
	}
	if chance := e.Get("chance_of_playing_next_round"); chance.Type == gjson.Number {
		n := int(chance.Int())
		p.ChanceOfPlaying = &n
	}
	return p
}

// parseDecimal reads a numeric feed string; anything unparsable counts as zero
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseFixtures parses the fixtures document, ordered by kickoff time.
// Fixtures without a kickoff time sort first.
func ParseFixtures(data []byte) ([]domain.Fixture, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: fixtures is not valid JSON", ErrMalformedFeed)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: fixtures must be an array", ErrMalformedFeed)
	}

	fixtures := make([]domain.Fixture, 0)
	doc.ForEach(func(_, f gjson.Result) bool {
		fixture := domain.Fixture{
			ID:             int(f.Get("id").Int()),
			Gameweek:       optionalInt(f.Get("event")),
			HomeClubID:     int(f.Get("team_h").Int()),
			AwayClubID:     int(f.Get("team_a").Int()),
			HomeScore:      optionalInt(f.Get("team_h_score")),
			AwayScore:      optionalInt(f.Get("team_a_score")),
			HomeDifficulty: int(f.Get("team_h_difficulty").Int()),
			AwayDifficulty: int(f.Get("team_a_difficulty").Int()),
			Finished:       f.Get("finished").Bool(),
			Started:        f.Get("started").Bool(),
		}
		if kickoff, err := time.Parse(time.RFC3339, f.Get("kickoff_time").String()); err == nil {
			fixture.KickoffTime = &kickoff
		}
		fixtures = append(fixtures, fixture)
		return true
	})

	sort.SliceStable(fixtures, func(i, j int) bool {
		return kickoffUnix(fixtures[i]) < kickoffUnix(fixtures[j])
	})
	return fixtures, nil
}

func optionalInt(r gjson.Result) *int {
	if r.Type != gjson.Number {
		return nil
	}
	n := int(r.Int())
	return &n
}

func kickoffUnix(f domain.Fixture) int64 {
	if f.KickoffTime == nil {
		return 0
	}
	return f.KickoffTime.Unix()
}

// NewCatalog builds a catalog snapshot from parsed documents
func NewCatalog(b *Bootstrap, fixtures []domain.Fixture, fetchedAt time.Time) *domain.Catalog {
	return domain.NewCatalog(b.Players, b.Clubs, fixtures, fetchedAt)
}

// ParseCatalog parses a bootstrap document and an optional fixtures document into a catalog
func ParseCatalog(bootstrap, fixtures []byte, fetchedAt time.Time) (*domain.Catalog, error) {
	b, err := ParseBootstrap(bootstrap)
	if err != nil {
		return nil, err
	}
	var parsedFixtures []domain.Fixture
	if len(fixtures) > 0 {
		if parsedFixtures, err = ParseFixtures(fixtures); err != nil {
			return nil, err
		}
	}
	return NewCatalog(b, parsedFixtures, fetchedAt), nil
}
