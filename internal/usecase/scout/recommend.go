package scout

import "github.com/simaogato/squad-architect-backend/internal/domain"

// Recommend picks the default package of a value curve.
// Starting from the first entry it moves to the next one while that entry's gain
// exceeds the current one's by more than margin, and stops at the first that does not.
// Returns -1 for an empty curve.
func Recommend(pkgs []*domain.TransferPackage, margin float64) int {
	if len(pkgs) == 0 {
		return -1
	}

	idx := 0
	for i := 1; i < len(pkgs); i++ {
		if pkgs[i].Gain-pkgs[i-1].Gain <= margin {
			break
		}
		idx = i
	}
	return idx
}
