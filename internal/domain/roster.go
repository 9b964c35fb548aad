package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Slot is one of the 15 positions in a roster. ID and Type never change;
// only the occupant and the starter flag do.
type Slot struct {
	ID        string   `json:"id"`
	Type      Position `json:"type"`
	IsStarter bool     `json:"isStarter"`
	Player    *Player  `json:"player"`
}

// IsFilled reports whether the slot holds a player
func (s *Slot) IsFilled() bool {
	return s.Player != nil
}

// Roster represents the user's squad in the domain layer.
// Budget is in tenths and may go negative (warning, not a violation).
// CaptainID and ViceCaptainID are player IDs; 0 means unset.
type Roster struct {
	ID            uuid.UUID `json:"id"`
	Slots         []Slot    `json:"slots"`
	Budget        int       `json:"budget"`
	CaptainID     int       `json:"captainId,omitempty"`
	ViceCaptainID int       `json:"viceCaptainId,omitempty"`
}

// defaultLayout is the slot structure of a fresh roster: 11 starters in a 4-4-2 then the bench
var defaultLayout = []struct {
	id        string
	pos       Position
	isStarter bool
}{
	{"s1", PositionGK, true},
	{"s2", PositionDEF, true},
	{"s3", PositionDEF, true},
	{"s4", PositionDEF, true},
	{"s5", PositionDEF, true},
	{"s6", PositionMID, true},
	{"s7", PositionMID, true},
	{"s8", PositionMID, true},
	{"s9", PositionMID, true},
	{"s10", PositionFWD, true},
	{"s11", PositionFWD, true},
	{"b1", PositionGK, false},
	{"b2", PositionDEF, false},
	{"b3", PositionMID, false},
	{"b4", PositionFWD, false},
}

// NewEmptyRoster creates a roster with all 15 slots empty and the given budget
func NewEmptyRoster(id uuid.UUID, budget int) *Roster {
	slots := make([]Slot, len(defaultLayout))
	for i, l := range defaultLayout {
		slots[i] = Slot{ID: l.id, Type: l.pos, IsStarter: l.isStarter}
	}
	return &Roster{ID: id, Slots: slots, Budget: budget}
}

// Clone returns a copy whose slot slice can be mutated without affecting r.
// Players are shared; they are immutable.
func (r *Roster) Clone() *Roster {
	c := *r
	c.Slots = make([]Slot, len(r.Slots))
	copy(c.Slots, r.Slots)
	return &c
}

// SlotIndex returns the index of the slot with the given ID, or -1
func (r *Roster) SlotIndex(slotID string) int {
	for i := range r.Slots {
		if r.Slots[i].ID == slotID {
			return i
		}
	}
	return -1
}

// PlayerSlotIndex returns the index of the slot holding playerID, or -1
func (r *Roster) PlayerSlotIndex(playerID int) int {
	for i := range r.Slots {
		if r.Slots[i].Player != nil && r.Slots[i].Player.ID == playerID {
			return i
		}
	}
	return -1
}

// FilledSlots returns copies of the occupied slots in roster order
func (r *Roster) FilledSlots() []Slot {
	filled := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Player != nil {
			filled = append(filled, s)
		}
	}
	return filled
}

// Starters returns the players in starter slots, in roster order
func (r *Roster) Starters() []*Player {
	starters := make([]*Player, 0, StarterCount)
	for _, s := range r.Slots {
		if s.IsStarter && s.Player != nil {
			starters = append(starters, s.Player)
		}
	}
	return starters
}

// IsStarter reports whether playerID currently occupies a starter slot
func (r *Roster) IsStarter(playerID int) bool {
	idx := r.PlayerSlotIndex(playerID)
	return idx >= 0 && r.Slots[idx].IsStarter
}

// ClubCounts returns how many roster players each club supplies
func (r *Roster) ClubCounts() map[int]int {
	counts := make(map[int]int)
	for _, s := range r.Slots {
		if s.Player != nil {
			counts[s.Player.ClubID]++
		}
	}
	return counts
}

// OwnedIDs returns the set of player IDs in the roster
func (r *Roster) OwnedIDs() map[int]bool {
	owned := make(map[int]bool, SquadSize)
	for _, s := range r.Slots {
		if s.Player != nil {
			owned[s.Player.ID] = true
		}
	}
	return owned
}

// SquadValue returns the summed cost of all owned players (the sell value)
func (r *Roster) SquadValue() int {
	total := 0
	for _, s := range r.Slots {
		if s.Player != nil {
			total += s.Player.Cost
		}
	}
	return total
}

// StarterEP sums starter expected points without captaincy
func (r *Roster) StarterEP() float64 {
	total := 0.0
	for _, p := range r.Starters() {
		total += p.EP()
	}
	return total
}

// TotalEP sums starter expected points with the captain's counted twice
func (r *Roster) TotalEP() float64 {
	total := 0.0
	for _, p := range r.Starters() {
		ep := p.EP()
		if p.ID == r.CaptainID {
			ep *= 2
		}
		total += ep
	}
	return total
}

// Validate ensures the roster adheres to the squad invariants
// Returns an error if validation fails
// Checks:
//   - exactly 15 slots with 2 GK, 5 DEF, 5 MID, 3 FWD slot types
//   - every occupant matches its slot type and appears only once
//   - starter slots form a legal formation
//   - no club supplies more than 3 players
func (r *Roster) Validate() error {
	if len(r.Slots) != SquadSize {
		return fmt.Errorf("%w: roster must have %d slots, got %d", ErrInvalidRoster, SquadSize, len(r.Slots))
	}

	typeCounts := make(map[Position]int, len(Positions))
	seenSlots := make(map[string]bool, SquadSize)
	seenPlayers := make(map[int]bool, SquadSize)
	for _, s := range r.Slots {
		if !s.Type.Valid() {
			return fmt.Errorf("%w: slot %s has invalid type", ErrInvalidRoster, s.ID)
		}
		if seenSlots[s.ID] {
			return fmt.Errorf("%w: duplicate slot id %s", ErrInvalidRoster, s.ID)
		}
		seenSlots[s.ID] = true
		typeCounts[s.Type]++

		if s.Player == nil {
			continue
		}
		if s.Player.Position != s.Type {
			return fmt.Errorf("%w: slot %s", ErrPositionMismatch, s.ID)
		}
		if seenPlayers[s.Player.ID] {
			return fmt.Errorf("%w: player %d occupies more than one slot", ErrInvalidRoster, s.Player.ID)
		}
		seenPlayers[s.Player.ID] = true
	}

	for _, pos := range Positions {
		if typeCounts[pos] != pos.SquadQuota() {
			return fmt.Errorf("%w: roster must have %d %s slots, got %d",
				ErrInvalidRoster, pos.SquadQuota(), pos, typeCounts[pos])
		}
	}

	if res := ValidateFormation(r.Slots); !res.Valid {
		return &FormationError{Reason: res.Reason}
	}

	for clubID, n := range r.ClubCounts() {
		if n > MaxPerClub {
			return fmt.Errorf("%w: club %d has %d players", ErrClubLimit, clubID, n)
		}
	}

	return nil
}

// SlotState is the persisted form of a slot
type SlotState struct {
	SlotID    string   `json:"slotId"`
	Type      Position `json:"type"`
	IsStarter bool     `json:"isStarter"`
	PlayerID  *int     `json:"playerId"`
}

// RosterState is the persisted form of a roster: player references instead of player values.
// This is the shape the persistence collaborator reads and writes.
type RosterState struct {
	ID            uuid.UUID   `json:"id"`
	Slots         []SlotState `json:"slots"`
	Budget        int         `json:"budget"`
	CaptainID     *int        `json:"captainId,omitempty"`
	ViceCaptainID *int        `json:"viceCaptainId,omitempty"`
}

// State converts the roster to its persisted form
func (r *Roster) State() *RosterState {
	state := &RosterState{
		ID:     r.ID,
		Slots:  make([]SlotState, len(r.Slots)),
		Budget: r.Budget,
	}
	for i, s := range r.Slots {
		state.Slots[i] = SlotState{SlotID: s.ID, Type: s.Type, IsStarter: s.IsStarter}
		if s.Player != nil {
			id := s.Player.ID
			state.Slots[i].PlayerID = &id
		}
	}
	if r.CaptainID != 0 {
		id := r.CaptainID
		state.CaptainID = &id
	}
	if r.ViceCaptainID != 0 {
		id := r.ViceCaptainID
		state.ViceCaptainID = &id
	}
	return state
}

// Hydrate rebuilds a roster from persisted state, resolving player IDs against the catalog.
// Player IDs missing from the catalog leave their slot empty and are returned in missing.
func Hydrate(state *RosterState, catalog *Catalog) (roster *Roster, missing []int, err error) {
	if state == nil {
		return nil, nil, errors.New("roster state cannot be nil")
	}

	roster = &Roster{
		ID:     state.ID,
		Slots:  make([]Slot, len(state.Slots)),
		Budget: state.Budget,
	}
	for i, s := range state.Slots {
		roster.Slots[i] = Slot{ID: s.SlotID, Type: s.Type, IsStarter: s.IsStarter}
		if s.PlayerID == nil {
			continue
		}
		p, ok := catalog.Player(*s.PlayerID)
		if !ok {
			missing = append(missing, *s.PlayerID)
			continue
		}
		roster.Slots[i].Player = p
	}
	if state.CaptainID != nil {
		roster.CaptainID = *state.CaptainID
	}
	if state.ViceCaptainID != nil {
		roster.ViceCaptainID = *state.ViceCaptainID
	}

	if err := roster.Validate(); err != nil {
		return nil, missing, err
	}
	return roster, missing, nil
}
