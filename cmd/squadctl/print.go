package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/usecase/dashboard"
	"github.com/simaogato/squad-architect-backend/internal/usecase/scout"
	"github.com/simaogato/squad-architect-backend/internal/usecase/squad"
)

func printView(w io.Writer, v *squad.View) {
	r := v.Roster
	for _, slot := range r.Slots {
		role := "   "
		switch {
		case slot.Player == nil:
		case slot.Player.ID == r.CaptainID:
			role = "(C)"
		case slot.Player.ID == r.ViceCaptainID:
			role = "(V)"
		}
		if slot.Player == nil {
			fmt.Fprintf(w, "%-4s %-3s %-22s\n", slot.ID, slot.Type, "-")
			continue
		}
		fmt.Fprintf(w, "%-4s %-3s %-22s %6s %5.1f %s\n",
			slot.ID, slot.Type, slot.Player.WebName, domain.FormatCost(slot.Player.Cost), slot.Player.EP(), role)
	}
	fmt.Fprintf(w, "bank %s\n", domain.FormatCost(r.Budget))
	if len(v.MissingPlayers) > 0 {
		fmt.Fprintf(w, "no longer in the feed: %v\n", v.MissingPlayers)
	}
	printWarnings(w, v.Warnings)
}

func printSummary(w io.Writer, s *dashboard.SummaryResult) {
	fmt.Fprintf(w, "starter EP %s  squad value %s  filled %d/%d\n",
		s.StarterEP.StringFixed(1), domain.FormatCost(s.SquadValue), s.FilledSlots, domain.SquadSize)
	if s.Formation != domain.FormationOK {
		fmt.Fprintf(w, "formation: %s\n", s.Formation.Message())
	}
}

func printCurve(w io.Writer, curve *scout.Curve) {
	for i, pkg := range curve.Packages {
		printPackage(w, i, pkg, i == curve.Recommended)
	}
	fmt.Fprintf(w, "explored %d nodes over %d depths\n", curve.Explored, curve.DepthsTried)
}

func printPackage(w io.Writer, i int, pkg *domain.TransferPackage, recommended bool) {
	marker := ""
	if recommended {
		marker = " *"
	}
	fmt.Fprintf(w, "#%d %s transfers=%d gain=%+.1f cost=%s%s\n",
		i+1, pkg.ID, pkg.TransferCount, pkg.Gain, domain.FormatCost(pkg.CostDelta), marker)
	if pkg.IsWildcard {
		return
	}
	for j, slot := range pkg.Out {
		var in *domain.Player
		if j < len(pkg.In) {
			in = pkg.In[j]
		}
		fmt.Fprintf(w, "   %s: %s -> %s\n", slot.ID, playerName(slot.Player), playerName(in))
	}
}

func printWarnings(w io.Writer, warnings []domain.Warning) {
	if len(warnings) == 0 {
		return
	}
	names := make([]string, len(warnings))
	for i, warning := range warnings {
		names[i] = string(warning)
	}
	fmt.Fprintf(w, "warnings: %s\n", strings.Join(names, ", "))
}

func playerName(p *domain.Player) string {
	if p == nil {
		return "-"
	}
	return p.WebName
}
