// Package domaintest builds players and rosters for tests.
package domaintest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// FetchedAt is the snapshot time of every catalog built here
var FetchedAt = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

// Player returns an active player. ep is parsed like the feed's ep_next string.
func Player(id int, pos domain.Position, clubID, cost int, ep string) *domain.Player {
	return &domain.Player{
		ID:             id,
		WebName:        fmt.Sprintf("P%d", id),
		ClubID:         clubID,
		Position:       pos,
		Cost:           cost,
		ExpectedPoints: decimal.RequireFromString(ep),
		Status:         domain.StatusActive,
	}
}

// Roster places players into a fresh roster's slots, each into the first empty slot of its
// position in layout order (starters s1..s11 first, then the bench).
// It panics when a position overflows.
func Roster(budget int, players ...*domain.Player) *domain.Roster {
	r := domain.NewEmptyRoster(uuid.New(), budget)
	for _, p := range players {
		placed := false
		for i := range r.Slots {
			if r.Slots[i].Type == p.Position && r.Slots[i].Player == nil {
				r.Slots[i].Player = p
				placed = true
				break
			}
		}
		if !placed {
			panic(fmt.Sprintf("domaintest: no empty %s slot for player %d", p.Position, p.ID))
		}
	}
	return r
}

// Squad returns 15 players in quota order (2 GK, 5 DEF, 5 MID, 3 FWD) with IDs starting at
// firstID, all costing cost and expecting ep. Every three consecutive players share a club,
// starting at firstClub, so the squad respects the club cap.
func Squad(firstID, firstClub, cost int, ep string) []*domain.Player {
	players := make([]*domain.Player, 0, domain.SquadSize)
	for _, pos := range domain.Positions {
		for i := 0; i < pos.SquadQuota(); i++ {
			n := len(players)
			players = append(players, Player(firstID+n, pos, firstClub+n/domain.MaxPerClub, cost, ep))
		}
	}
	return players
}

// Catalog wraps players (and one club per distinct club ID) in a catalog
func Catalog(players ...*domain.Player) *domain.Catalog {
	values := make([]domain.Player, len(players))
	seen := make(map[int]bool)
	clubs := make([]domain.Club, 0)
	for i, p := range players {
		values[i] = *p
		if !seen[p.ClubID] {
			seen[p.ClubID] = true
			clubs = append(clubs, domain.Club{ID: p.ClubID, Name: fmt.Sprintf("Club %d", p.ClubID), ShortName: fmt.Sprintf("C%d", p.ClubID)})
		}
	}
	return domain.NewCatalog(values, clubs, nil, FetchedAt)
}
