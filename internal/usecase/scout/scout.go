package scout

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/simaogato/squad-architect-backend/internal/domain"
)

// Phase names a suspension point of a search
type Phase int

const (
	// PhaseStart is reached once, before any candidate is examined
	PhaseStart Phase = iota
	// PhaseDepth is reached after each depth has been searched, before the next one starts
	PhaseDepth
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// YieldFunc is called at every suspension point. Returning an error aborts the search with it.
type YieldFunc func(ctx context.Context, phase Phase, depth int) error

// Input is everything a search reads. Nothing in it is modified.
type Input struct {
	Roster *domain.Roster
	// Pool is the candidate player pool, usually the catalog's active players in feed order
	Pool []*domain.Player
	// Depth is the largest number of simultaneous transfers to try
	Depth int
}

// Curve is the value curve of a search: one package per accepted depth, gains strictly increasing
type Curve struct {
	Packages    []*domain.TransferPackage `json:"packages"`
	Recommended int                       `json:"recommended"`
	Explored    int64                     `json:"explored"`
	DepthsTried int                       `json:"depthsTried"`
}

// Empty reports whether the search found no improving package
func (c *Curve) Empty() bool {
	return len(c.Packages) == 0
}

// RecommendedPackage returns the default pick, or nil when the curve is empty
func (c *Curve) RecommendedPackage() *domain.TransferPackage {
	if c.Recommended < 0 || c.Recommended >= len(c.Packages) {
		return nil
	}
	return c.Packages[c.Recommended]
}

// Scout runs the incremental transfer search
type Scout struct {
	cfg   Config
	yield YieldFunc
}

// Option configures a Scout
type Option func(*Scout)

// WithYield replaces the default suspension hook
func WithYield(fn YieldFunc) Option {
	return func(s *Scout) {
		s.yield = fn
	}
}

// New creates a Scout with the given caps
func New(cfg Config, opts ...Option) *Scout {
	s := &Scout{cfg: cfg, yield: defaultYield}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultYield hands the processor back to the scheduler and honours cancellation
func defaultYield(ctx context.Context, _ Phase, _ int) error {
	runtime.Gosched()
	return ctx.Err()
}

// Run searches for the best transfer package at each depth from 1 to in.Depth.
// Logic:
//  1. Prune sellable slots (the 5 lowest-EP owned players when Depth > 2) and
//     candidates (top 15 unowned active players per position)
//  2. For each depth d, try every d-combination of sellable slots and fill the
//     vacancies with the highest-EP feasible assignment
//  3. Accept the depth's best package only if its gain beats the previous accepted gain;
//     otherwise, or when nothing is feasible, stop
//  4. Pick the recommended index with Recommend
//
// An empty curve is a valid "no improvement" result, not an error.
func (s *Scout) Run(ctx context.Context, in Input) (*Curve, error) {
	if in.Roster == nil {
		return nil, fmt.Errorf("%w: roster cannot be nil", domain.ErrInvalidRoster)
	}
	if in.Depth < 1 || in.Depth > s.cfg.MaxDepth {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", domain.ErrInvalidDepth, in.Depth, s.cfg.MaxDepth)
	}

	curve := &Curve{Packages: make([]*domain.TransferPackage, 0), Recommended: -1}

	if err := s.yield(ctx, PhaseStart, 0); err != nil {
		return nil, err
	}

	sellable := s.outCandidates(in.Roster, in.Depth)
	owned := in.Roster.OwnedIDs()
	search := &assigner{
		pool:       s.inCandidates(in.Pool, owned),
		owned:      owned,
		checkEvery: int64(s.cfg.CancelCheckInterval),
	}

	prevBest := 0.0
	for d := 1; d <= in.Depth; d++ {
		curve.DepthsTried = d

		pkg, err := s.bestForDepth(ctx, in.Roster, sellable, search, d)
		curve.Explored = search.explored
		if err != nil {
			return nil, err
		}
		if pkg == nil || pkg.Gain <= prevBest {
			break
		}

		curve.Packages = append(curve.Packages, pkg)
		prevBest = pkg.Gain

		if d < in.Depth {
			if err := s.yield(ctx, PhaseDepth, d); err != nil {
				return nil, err
			}
		}
	}

	curve.Recommended = Recommend(curve.Packages, s.cfg.RecommendMargin)
	return curve, nil
}

// outCandidates returns the slots that may be sold, in the order combinations are drawn from
func (s *Scout) outCandidates(r *domain.Roster, depth int) []domain.Slot {
	filled := r.FilledSlots()
	if depth <= s.cfg.PruneDepth {
		return filled
	}

	sort.SliceStable(filled, func(i, j int) bool {
		return filled[i].Player.EP() < filled[j].Player.EP()
	})
	if len(filled) > s.cfg.OutCandidateLimit {
		filled = filled[:s.cfg.OutCandidateLimit]
	}
	return filled
}

// inCandidates keeps, per position, the best unowned active players by EP
func (s *Scout) inCandidates(pool []*domain.Player, owned map[int]bool) map[domain.Position][]candidate {
	byPos := make(map[domain.Position][]candidate, len(domain.Positions))
	for _, p := range pool {
		if p == nil || !p.IsActive() || owned[p.ID] {
			continue
		}
		byPos[p.Position] = append(byPos[p.Position], candidate{player: p, ep: p.EP()})
	}

	for pos, cands := range byPos {
		sort.SliceStable(cands, func(i, j int) bool {
			return cands[i].ep > cands[j].ep
		})
		if len(cands) > s.cfg.InCandidateLimit {
			cands = cands[:s.cfg.InCandidateLimit]
		}
		byPos[pos] = cands
	}
	return byPos
}

// bestForDepth returns the highest-gain package selling exactly d slots, or nil when none is feasible
func (s *Scout) bestForDepth(
	ctx context.Context,
	r *domain.Roster,
	sellable []domain.Slot,
	search *assigner,
	d int,
) (*domain.TransferPackage, error) {
	var best *domain.TransferPackage

	baseCounts := r.ClubCounts()
	vacancies := make([]domain.Position, d)

	err := forEachCombination(len(sellable), d, func(idx []int) error {
		freed := r.Budget
		outEP := 0.0
		counts := make(map[int]int, len(baseCounts))
		for club, n := range baseCounts {
			counts[club] = n
		}
		sold := make(map[int]bool, d)

		for i, j := range idx {
			p := sellable[j].Player
			freed += p.Cost
			outEP += p.EP()
			counts[p.ClubID]--
			sold[p.ID] = true
			vacancies[i] = sellable[j].Type
		}

		found, err := search.best(ctx, vacancies, freed, counts, sold)
		if err != nil {
			return err
		}
		if found == nil {
			return nil
		}

		gain := found.totalEP - outEP
		if best != nil && gain <= best.Gain {
			return nil
		}

		out := make([]domain.Slot, d)
		outCost := 0
		for i, j := range idx {
			out[i] = sellable[j]
			outCost += sellable[j].Player.Cost
		}
		inCost := 0
		for _, p := range found.players {
			inCost += p.Cost
		}

		best = &domain.TransferPackage{
			RosterID:      r.ID,
			Out:           out,
			In:            found.players,
			Gain:          gain,
			CostDelta:     inCost - outCost,
			TransferCount: d,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return best, nil
}
