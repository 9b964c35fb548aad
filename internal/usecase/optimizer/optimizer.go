package optimizer

import (
	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// minGain is the smallest expected-points improvement worth a swap
const minGain = 0.001

// Swap is one applied exchange of starter status between a bench slot and a starter slot
type Swap struct {
	BenchSlotID   string  `json:"benchSlotId"`
	StarterSlotID string  `json:"starterSlotId"`
	Gain          float64 `json:"gain"`
}

// Result is the optimised roster and the swaps that produced it, in order
type Result struct {
	Roster *domain.Roster `json:"roster"`
	Swaps  []Swap         `json:"swaps"`
}

// Optimize maximises starter expected points by greedy hill-climbing over bench/starter swaps.
// The input roster is not modified.
// Logic:
//  1. Enumerate (bench player, starter player) pairs whose EP difference exceeds 0.001
//  2. Hypothetically swap their starter flags and keep only swaps with a legal formation
//  3. Apply the swap with the largest gain (first found on ties, bench-major roster order)
//  4. Repeat until no improving swap exists, then re-derive captaincy once
//
// Each swap strictly raises starter EP, so the loop terminates at a local optimum.
func Optimize(roster *domain.Roster) Result {
	best := roster.Clone()
	swaps := make([]Swap, 0)

	for {
		benchIdx, starterIdx, gain, found := bestSwap(best)
		if !found {
			break
		}
		best.Slots[starterIdx].IsStarter = false
		best.Slots[benchIdx].IsStarter = true
		swaps = append(swaps, Swap{
			BenchSlotID:   best.Slots[benchIdx].ID,
			StarterSlotID: best.Slots[starterIdx].ID,
			Gain:          gain,
		})
	}

	domain.AssignCaptaincy(best)

	return Result{Roster: best, Swaps: swaps}
}

// bestSwap finds the feasible swap with the largest gain.
// r is flipped in place to test each candidate and restored before returning.
func bestSwap(r *domain.Roster) (benchIdx, starterIdx int, gain float64, found bool) {
	maxGain := 0.0

	for bi := range r.Slots {
		bench := &r.Slots[bi]
		if bench.IsStarter || bench.Player == nil {
			continue
		}
		benchEP := bench.Player.EP()

		for si := range r.Slots {
			starter := &r.Slots[si]
			if !starter.IsStarter || starter.Player == nil {
				continue
			}

			g := benchEP - starter.Player.EP()
			if g <= minGain {
				continue
			}

			starter.IsStarter = false
			bench.IsStarter = true
			valid := domain.ValidateFormation(r.Slots).Valid
			starter.IsStarter = true
			bench.IsStarter = false

			if valid && g > maxGain {
				maxGain = g
				benchIdx, starterIdx, gain, found = bi, si, g, true
			}
		}
	}

	return benchIdx, starterIdx, gain, found
}
