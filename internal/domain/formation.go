package domain

// FormationReason identifies why a starter set is not a legal formation
type FormationReason string

const (
	FormationOK           FormationReason = ""
	ReasonTooFewStarters  FormationReason = "TOO_FEW_STARTERS"
	ReasonTooManyStarters FormationReason = "TOO_MANY_STARTERS"
	ReasonGoalkeeperCount FormationReason = "WRONG_GK_COUNT"
	ReasonDefenderCount   FormationReason = "WRONG_DEF_COUNT"
	ReasonMidfielderCount FormationReason = "WRONG_MID_COUNT"
	ReasonForwardCount    FormationReason = "WRONG_FWD_COUNT"
)

// Message returns the user-facing text for the reason
func (r FormationReason) Message() string {
	switch r {
	case FormationOK:
		return "valid formation"
	case ReasonTooFewStarters, ReasonTooManyStarters:
		return "11 starters required"
	case ReasonGoalkeeperCount:
		return "1 GK required"
	case ReasonDefenderCount:
		return "3-5 DEF"
	case ReasonMidfielderCount:
		return "2-5 MID"
	case ReasonForwardCount:
		return "1-3 FWD"
	default:
		return string(r)
	}
}

// FormationResult is the outcome of ValidateFormation
type FormationResult struct {
	Valid  bool
	Reason FormationReason
	// Counts holds the number of starter slots per position
	Counts map[Position]int
}

var positionReason = map[Position]FormationReason{
	PositionGK:  ReasonGoalkeeperCount,
	PositionDEF: ReasonDefenderCount,
	PositionMID: ReasonMidfielderCount,
	PositionFWD: ReasonForwardCount,
}

// ValidateFormation checks the starter slots of a roster.
// Starters are counted by slot type, occupied or not.
// Valid iff there are exactly 11 starters with 1 GK, 3-5 DEF, 2-5 MID and 1-3 FWD.
// The first failing rule, in that order, is reported.
func ValidateFormation(slots []Slot) FormationResult {
	counts := make(map[Position]int, len(Positions))
	starters := 0
	for _, s := range slots {
		if s.IsStarter {
			starters++
			counts[s.Type]++
		}
	}

	res := FormationResult{Counts: counts}
	switch {
	case starters < StarterCount:
		res.Reason = ReasonTooFewStarters
		return res
	case starters > StarterCount:
		res.Reason = ReasonTooManyStarters
		return res
	}

	for _, pos := range Positions {
		lo, hi := pos.StarterRange()
		if counts[pos] < lo || counts[pos] > hi {
			res.Reason = positionReason[pos]
			return res
		}
	}

	res.Valid = true
	return res
}
