package resolver

// Kind says why an attempt is in the plan
type Kind int

const (
	// KindPrimary is the first download of the resolved version
	KindPrimary Kind = iota
	// KindExplicitRetry repeats a version the user asked for by name
	KindExplicitRetry
	// KindRecentRelease is one of the recent releases used as fallback
	KindRecentRelease
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindExplicitRetry:
		return "explicit-retry"
	case KindRecentRelease:
		return "recent-release"
	default:
		return "unknown"
	}
}

// Attempt is a single version to try
type Attempt struct {
	Version string
	Kind    Kind
}

// Outcome is the result of running an Attempt. Err is nil on success.
type Outcome struct {
	Attempt   Attempt
	Path      string
	FromCache bool
	Err       error
}

// OK reports whether the attempt produced an installation
func (o Outcome) OK() bool {
	return o.Err == nil && o.Path != ""
}

// FallbackPlan returns the attempts that follow a failed primary download.
// A non-empty explicit version is retried once first, then every candidate
// follows in the given order. Candidates are neither deduplicated nor
// reordered, and empty candidates are skipped.
func FallbackPlan(explicit string, candidates []string) []Attempt {
	plan := make([]Attempt, 0, len(candidates)+1)
	if explicit != "" {
		plan = append(plan, Attempt{Version: explicit, Kind: KindExplicitRetry})
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		plan = append(plan, Attempt{Version: c, Kind: KindRecentRelease})
	}
	return plan
}
