package scout

import (
	"context"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// candidate is an in-pool player with its EP pre-parsed
type candidate struct {
	player *domain.Player
	ep     float64
}

// assignment is the best complete fill of one out-set's vacancies
type assignment struct {
	players []*domain.Player
	totalEP float64
}

// assigner fills an ordered list of vacancies with one candidate each, maximising total incoming EP.
// It is an explicit depth-first search so the stack depth is bounded by the number of
// vacancies and the context can be checked while it runs.
type assigner struct {
	pool       map[domain.Position][]candidate
	owned      map[int]bool
	checkEvery int64

	explored int64
}

// best runs the search for one out-set.
// Constraints per pick: cost within the remaining freed budget, not already picked in this
// assignment, not owned elsewhere in the roster (unless sold in this out-set), and the
// club's count after the pick at most MaxPerClub. clubCounts must already exclude the
// out-set, which is what lets a player from the outgoing player's club replace him.
// Returns nil when no full assignment fits.
func (a *assigner) best(
	ctx context.Context,
	vacancies []domain.Position,
	budget int,
	clubCounts map[int]int,
	soldIDs map[int]bool,
) (*assignment, error) {
	depth := len(vacancies)
	if depth == 0 {
		return &assignment{}, nil
	}

	next := make([]int, depth)
	chosen := make([]candidate, depth)
	chosenIDs := make(map[int]bool, depth)
	remaining := make([]int, depth+1)
	epSum := make([]float64, depth+1)
	remaining[0] = budget

	var best *assignment

	undo := func(level int) {
		c := chosen[level]
		delete(chosenIDs, c.player.ID)
		clubCounts[c.player.ClubID]--
	}

	level := 0
	for level >= 0 {
		if level == depth {
			// strict improvement only: the first equal-best branch in pool order wins
			if best == nil || epSum[depth] > best.totalEP {
				players := make([]*domain.Player, depth)
				for i, c := range chosen {
					players[i] = c.player
				}
				best = &assignment{players: players, totalEP: epSum[depth]}
			}
			level--
			undo(level)
			continue
		}

		cands := a.pool[vacancies[level]]
		advanced := false
		for next[level] < len(cands) {
			c := cands[next[level]]
			next[level]++

			a.explored++
			if a.checkEvery > 0 && a.explored%a.checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

			p := c.player
			if p.Cost > remaining[level] {
				continue
			}
			if chosenIDs[p.ID] {
				continue
			}
			if a.owned[p.ID] && !soldIDs[p.ID] {
				continue
			}
			if clubCounts[p.ClubID]+1 > domain.MaxPerClub {
				continue
			}

			chosen[level] = c
			chosenIDs[p.ID] = true
			clubCounts[p.ClubID]++
			remaining[level+1] = remaining[level] - p.Cost
			epSum[level+1] = epSum[level] + c.ep
			level++
			if level < depth {
				next[level] = 0
			}
			advanced = true
			break
		}

		if !advanced {
			level--
			if level >= 0 {
				undo(level)
			}
		}
	}

	return best, nil
}
