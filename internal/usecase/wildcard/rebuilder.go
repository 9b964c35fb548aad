package wildcard

import (
	"sort"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// Input is what a rebuild reads. Nothing in it is modified.
type Input struct {
	Roster *domain.Roster
	// Pool is the candidate player pool; inactive players are ignored
	Pool []*domain.Player
}

// Rebuild constructs a whole new 15-player squad and returns it as a wildcard package.
// Logic:
//  1. Total budget = bank + sell value of every owned player
//  2. Walk active players by descending EP, admitting each while its position quota
//     (2/5/5/3) has room and its club supplies fewer than 3 admitted players
//  3. While the squad costs more than the total budget, replace the lowest-EP admitted
//     player with the cheapest strictly cheaper unadmitted player of the same position
//     that keeps the club cap (a same-club replacement always does); stop when none exists
//  4. Package the result: in-set is the new squad, out-set is every filled slot
//
// A squad that cannot be repaired under budget is still returned, with OverBudget and
// Shortfall set. Returns nil when the pool cannot fill all 15 places.
func Rebuild(in Input) *domain.TransferPackage {
	if in.Roster == nil {
		return nil
	}

	totalBudget := in.Roster.Budget + in.Roster.SquadValue()

	ranked := make([]*domain.Player, 0, len(in.Pool))
	for _, p := range in.Pool {
		if p != nil && p.IsActive() {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EP() > ranked[j].EP()
	})

	s := newSquad()
	for _, p := range ranked {
		if s.size() == domain.SquadSize {
			break
		}
		if s.canAdmit(p) {
			s.admit(p)
		}
	}
	if s.size() < domain.SquadSize {
		return nil
	}

	for s.cost > totalBudget {
		weakest := s.weakest()
		replacement := cheapestReplacement(ranked, s, weakest)
		if replacement == nil {
			break
		}
		s.replace(weakest, replacement)
	}

	incoming := s.players()
	owned := in.Roster.OwnedIDs()
	newEP, transfers := 0.0, 0
	for _, p := range incoming {
		newEP += p.EP()
		if !owned[p.ID] {
			transfers++
		}
	}

	oldEP := 0.0
	out := in.Roster.FilledSlots()
	for _, slot := range out {
		oldEP += slot.Player.EP()
	}

	pkg := &domain.TransferPackage{
		RosterID:      in.Roster.ID,
		Out:           out,
		In:            incoming,
		Gain:          newEP - oldEP,
		CostDelta:     s.cost - in.Roster.SquadValue(),
		TransferCount: transfers,
		IsWildcard:    true,
	}
	if s.cost > totalBudget {
		pkg.OverBudget = true
		pkg.Shortfall = s.cost - totalBudget
	}
	return pkg
}

// cheapestReplacement finds the cheapest unadmitted player of out's position who costs
// strictly less than out and keeps the club cap once out has left. Ties keep EP order.
func cheapestReplacement(ranked []*domain.Player, s *squad, out *domain.Player) *domain.Player {
	var best *domain.Player
	for _, p := range ranked {
		if p.Position != out.Position || s.has(p.ID) || p.Cost >= out.Cost {
			continue
		}
		if p.ClubID != out.ClubID && s.clubs[p.ClubID] >= domain.MaxPerClub {
			continue
		}
		if best == nil || p.Cost < best.Cost {
			best = p
		}
	}
	return best
}
