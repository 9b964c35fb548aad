package dashboard

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/squad-architect-backend/internal/domain"
	"github.com/simaogato/squad-architect-backend/internal/usecase/transfer"
)

// analyticsLimit is the length of the influence and threat lists
const analyticsLimit = 5

// SummaryResult represents the aggregate figures of a roster
type SummaryResult struct {
	// StarterEP sums starter expected points with the captain counted twice
	StarterEP     decimal.Decimal         `json:"starterEp"`
	SquadValue    int                     `json:"squadValue"`
	Bank          int                     `json:"bank"`
	FilledSlots   int                     `json:"filledSlots"`
	ClubCounts    map[int]int             `json:"clubCounts"`
	StarterCounts map[domain.Position]int `json:"starterCounts"`
	Formation     domain.FormationReason  `json:"formation,omitempty"`
	Captain       *domain.Player          `json:"captain,omitempty"`
	ViceCaptain   *domain.Player          `json:"viceCaptain,omitempty"`
	Warnings      []domain.Warning        `json:"warnings,omitempty"`
}

// PlayerInsight is one row of the analytics lists
type PlayerInsight struct {
	Player *domain.Player  `json:"player"`
	Score  decimal.Decimal `json:"score"`
}

// AnalyticsResult ranks the roster against the rest of the league by ownership
type AnalyticsResult struct {
	// Influence lists starters few other managers own, by 100 - ownership
	Influence []PlayerInsight `json:"influence"`
	// Threats lists widely owned players the roster does not have
	Threats []PlayerInsight `json:"threats"`
}

// DashboardService handles read-only roster reporting
type DashboardService struct {
	RosterRepo domain.RosterRepository
	Catalog    domain.CatalogSource
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(rosterRepo domain.RosterRepository, catalog domain.CatalogSource) *DashboardService {
	return &DashboardService{
		RosterRepo: rosterRepo,
		Catalog:    catalog,
	}
}

// GetSummary calculates the roster's aggregate figures
// Logic:
//   - StarterEP: sum of starter expected points, captain doubled
//   - SquadValue: sum of occupant costs over all 15 slots
//   - ClubCounts / StarterCounts: ownership per club, starter slots per position
//   - Formation: the first failing formation rule, empty when legal
func (s *DashboardService) GetSummary(ctx context.Context, rosterID uuid.UUID) (*SummaryResult, error) {
	roster, missing, err := transfer.LoadRoster(ctx, s.RosterRepo, s.Catalog, rosterID)
	if err != nil {
		return nil, err
	}
	return Summarize(roster, missing), nil
}

// Summarize builds the summary of an already loaded roster
func Summarize(roster *domain.Roster, missing []int) *SummaryResult {
	starterEP := decimal.Zero
	for _, p := range roster.Starters() {
		starterEP = starterEP.Add(p.ExpectedPoints)
		if p.ID == roster.CaptainID {
			starterEP = starterEP.Add(p.ExpectedPoints)
		}
	}

	formation := domain.ValidateFormation(roster.Slots)
	result := &SummaryResult{
		StarterEP:     starterEP,
		SquadValue:    roster.SquadValue(),
		Bank:          roster.Budget,
		FilledSlots:   len(roster.FilledSlots()),
		ClubCounts:    roster.ClubCounts(),
		StarterCounts: formation.Counts,
		Formation:     formation.Reason,
		Warnings:      domain.RosterWarnings(roster),
	}
	if idx := roster.PlayerSlotIndex(roster.CaptainID); idx >= 0 {
		result.Captain = roster.Slots[idx].Player
	}
	if idx := roster.PlayerSlotIndex(roster.ViceCaptainID); idx >= 0 {
		result.ViceCaptain = roster.Slots[idx].Player
	}
	if len(missing) > 0 {
		result.Warnings = append(result.Warnings, domain.WarningUnknownPlayers)
	}
	return result
}

// GetAnalytics ranks the roster's starters by differential value and lists the most owned
// players it is missing
func (s *DashboardService) GetAnalytics(ctx context.Context, rosterID uuid.UUID) (*AnalyticsResult, error) {
	roster, _, err := transfer.LoadRoster(ctx, s.RosterRepo, s.Catalog, rosterID)
	if err != nil {
		return nil, err
	}
	return Analyze(roster, s.Catalog.Catalog()), nil
}

// Analyze builds the analytics of an already loaded roster
func Analyze(roster *domain.Roster, catalog *domain.Catalog) *AnalyticsResult {
	hundred := decimal.NewFromInt(100)

	influence := make([]PlayerInsight, 0, domain.StarterCount)
	for _, p := range roster.Starters() {
		influence = append(influence, PlayerInsight{Player: p, Score: hundred.Sub(p.OwnershipPercent)})
	}

	owned := roster.OwnedIDs()
	threats := make([]PlayerInsight, 0)
	if catalog != nil {
		for i := range catalog.Players {
			p := &catalog.Players[i]
			if owned[p.ID] {
				continue
			}
			threats = append(threats, PlayerInsight{Player: p, Score: p.OwnershipPercent})
		}
	}

	return &AnalyticsResult{
		Influence: topInsights(influence),
		Threats:   topInsights(threats),
	}
}

// topInsights keeps the highest scores; equal scores keep input order
func topInsights(rows []PlayerInsight) []PlayerInsight {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score.GreaterThan(rows[j].Score)
	})
	if len(rows) > analyticsLimit {
		rows = rows[:analyticsLimit]
	}
	return rows
}
