package scout

// Config holds the search caps. They trade completeness for tractability.
type Config struct {
	// MaxDepth is the largest number of simultaneous transfers a search accepts.
	MaxDepth int
	// PruneDepth is the depth above which only the weakest owned players are sellable.
	PruneDepth int
	// OutCandidateLimit is how many of the lowest-EP owned players stay sellable when pruning.
	OutCandidateLimit int
	// InCandidateLimit is how many of the best unowned players per position are considered.
	InCandidateLimit int
	// RecommendMargin is the marginal gain a deeper package must exceed to become the default pick.
	RecommendMargin float64
	// CancelCheckInterval is the number of search nodes between context checks.
	CancelCheckInterval int
}

// DefaultConfig returns the production search caps
func DefaultConfig() Config {
	return Config{
		MaxDepth:            5,
		PruneDepth:          2,
		OutCandidateLimit:   5,
		InCandidateLimit:    15,
		RecommendMargin:     0.5,
		CancelCheckInterval: 4096,
	}
}
