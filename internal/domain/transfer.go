package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TransferPackage is a proposed set of swaps. It is not persisted state: it is
// produced by the scout or the wildcard rebuilder, consumed once by the executor,
// then discarded.
// Out and In are position-aligned for incremental packages.
type TransferPackage struct {
	ID            string    `json:"id"`
	RosterID      uuid.UUID `json:"rosterId"`
	Out           []Slot    `json:"out"`
	In            []*Player `json:"in"`
	Gain          float64   `json:"gain"`
	CostDelta     int       `json:"costDelta"` // in cost minus out cost; bank moves by -CostDelta
	TransferCount int       `json:"transferCount"`
	IsWildcard    bool      `json:"isWildcard"`

	// OverBudget is set when a wildcard could not be repaired under budget
	OverBudget bool `json:"overBudget,omitempty"`
	Shortfall  int  `json:"shortfall,omitempty"`
}

// InCost sums the cost of incoming players
func (p *TransferPackage) InCost() int {
	total := 0
	for _, pl := range p.In {
		total += pl.Cost
	}
	return total
}

// OutCost sums the cost of outgoing players
func (p *TransferPackage) OutCost() int {
	total := 0
	for _, s := range p.Out {
		if s.Player != nil {
			total += s.Player.Cost
		}
	}
	return total
}

// Warning is a non-fatal condition the caller should surface
type Warning string

const (
	WarningNegativeBudget     Warning = "NEGATIVE_BUDGET"
	WarningWildcardOverBudget Warning = "WILDCARD_OVER_BUDGET"
	WarningUnknownPlayers     Warning = "UNKNOWN_PLAYERS"
	WarningIncompleteSquad    Warning = "INCOMPLETE_SQUAD"
	WarningUnavailableStarter Warning = "UNAVAILABLE_STARTER"
)

// BudgetWarnings returns WarningNegativeBudget when the bank is below zero
func BudgetWarnings(budget int) []Warning {
	if budget < 0 {
		return []Warning{WarningNegativeBudget}
	}
	return nil
}

// RosterWarnings lists the non-fatal conditions of a roster: negative bank,
// empty slots and starters the feed no longer marks as active
func RosterWarnings(r *Roster) []Warning {
	warnings := BudgetWarnings(r.Budget)
	if len(r.FilledSlots()) < SquadSize {
		warnings = append(warnings, WarningIncompleteSquad)
	}
	for _, p := range r.Starters() {
		if !p.IsActive() {
			warnings = append(warnings, WarningUnavailableStarter)
			break
		}
	}
	return warnings
}

// TransferKind tells how a TransferRecord came about
type TransferKind string

const (
	TransferKindManual   TransferKind = "MANUAL"
	TransferKindSale     TransferKind = "SALE"
	TransferKindPurchase TransferKind = "PURCHASE"
	TransferKindPackage  TransferKind = "PACKAGE"
	TransferKindWildcard TransferKind = "WILDCARD"
)

// TransferRecord is an executed change of roster membership, kept as history
type TransferRecord struct {
	ID          uuid.UUID       `json:"id"`
	RosterID    uuid.UUID       `json:"rosterId"`
	Kind        TransferKind    `json:"kind"`
	BudgetDelta int             `json:"budgetDelta"`
	CreatedAt   time.Time       `json:"createdAt"`
	Entries     []TransferEntry `json:"entries"`
}

// TransferEntry records one slot's change. A zero player ID means "nobody".
type TransferEntry struct {
	ID          uuid.UUID `json:"id"`
	RecordID    uuid.UUID `json:"recordId"`
	SlotID      string    `json:"slotId"`
	OutPlayerID int       `json:"outPlayerId,omitempty"`
	InPlayerID  int       `json:"inPlayerId,omitempty"`
}

// Validate ensures the record adheres to domain rules
// Returns an error if validation fails
func (t *TransferRecord) Validate() error {
	if len(t.Entries) == 0 {
		return errors.New("transfer record must have at least one entry")
	}

	switch t.Kind {
	case TransferKindManual, TransferKindSale, TransferKindPurchase, TransferKindPackage, TransferKindWildcard:
	default:
		return errors.New("transfer record kind is invalid")
	}

	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.SlotID == "" {
			return errors.New("transfer entry must reference a slot")
		}
		if seen[e.SlotID] {
			return errors.New("transfer record must not touch a slot twice")
		}
		seen[e.SlotID] = true
		if e.OutPlayerID == 0 && e.InPlayerID == 0 {
			return errors.New("transfer entry must have an outgoing or incoming player")
		}
	}

	return nil
}
