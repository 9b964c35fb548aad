package domain

import "errors"

// Domain errors. Callers match them with errors.Is.
var (
	ErrInvalidFormation    = errors.New("invalid formation")
	ErrInvalidRoster       = errors.New("invalid roster")
	ErrClubLimit           = errors.New("club limit reached")
	ErrPlayerOwned         = errors.New("player already in squad")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerNotActive     = errors.New("player is not available")
	ErrPositionMismatch    = errors.New("player position does not match slot type")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotEmpty           = errors.New("slot is empty")
	ErrNoEmptySlot         = errors.New("no empty slot for position")
	ErrNotStarter          = errors.New("player is not a starter")
	ErrRosterNotFound      = errors.New("roster not found")
	ErrPackageNotFound     = errors.New("transfer package not found")
	ErrStalePackage        = errors.New("transfer package no longer matches the roster")
	ErrInvalidDepth        = errors.New("invalid search depth")
	ErrInvalidSubstitution = errors.New("substitution needs one starter and one bench slot")
	ErrCatalogNotLoaded    = errors.New("player catalog not loaded")
)

// FormationError reports a rejected mutation together with the validator's reason code
type FormationError struct {
	Reason FormationReason
}

func (e *FormationError) Error() string {
	return ErrInvalidFormation.Error() + ": " + e.Reason.Message()
}

// Unwrap lets errors.Is(err, ErrInvalidFormation) match
func (e *FormationError) Unwrap() error {
	return ErrInvalidFormation
}
