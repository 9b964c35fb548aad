package domain

import "sort"

// AssignCaptaincy re-derives captain and vice-captain from the current starters.
// Logic:
//  1. Rank starters by expected points, descending; ties keep roster order
//  2. Keep the captain if it is still a starter, otherwise take the top-ranked starter
//  3. Keep the vice-captain if it is a starter other than the captain,
//     otherwise take the top-ranked starter that is not the captain
//  4. With nobody eligible the role becomes unset (0)
//
// Must be re-run after every change to the starter set.
func AssignCaptaincy(r *Roster) {
	ranked := r.Starters()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EP() > ranked[j].EP()
	})

	isStarter := make(map[int]bool, len(ranked))
	for _, p := range ranked {
		isStarter[p.ID] = true
	}

	if !isStarter[r.CaptainID] {
		r.CaptainID = 0
		if len(ranked) > 0 {
			r.CaptainID = ranked[0].ID
		}
	}

	if !isStarter[r.ViceCaptainID] || r.ViceCaptainID == r.CaptainID {
		r.ViceCaptainID = 0
		for _, p := range ranked {
			if p.ID != r.CaptainID {
				r.ViceCaptainID = p.ID
				break
			}
		}
	}
}
