package tier

import "log/slog"

// Name is a subscription tier.
type Name string

const (
	Free       Name = "free"
	Pro        Name = "pro"
	Business   Name = "business"
	Enterprise Name = "enterprise"
)

// Depth controls how much detail a stage asks the completion service for.
type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// Rank orders depths for monotonicity checks.
func (d Depth) Rank() int {
	switch d {
	case DepthBasic:
		return 0
	case DepthStandard:
		return 1
	case DepthDeep:
		return 2
	}
	return -1
}

// Profile is the set of knobs a tier grants to the analysis pipeline.
// Every pipeline stage receives it by value; there is no shared mutable
// configuration state.
type Profile struct {
	Tier          Name
	MaxInputChars int
	SummaryDepth  Depth
	RiskDetail    Depth
	ClauseDetail  Depth
}

var profiles = map[Name]Profile{
	Free: {
		Tier:          Free,
		MaxInputChars: 8000,
		SummaryDepth:  DepthBasic,
		RiskDetail:    DepthBasic,
		ClauseDetail:  DepthBasic,
	},
	Pro: {
		Tier:          Pro,
		MaxInputChars: 24000,
		SummaryDepth:  DepthStandard,
		RiskDetail:    DepthStandard,
		ClauseDetail:  DepthStandard,
	},
	Business: {
		Tier:          Business,
		MaxInputChars: 60000,
		SummaryDepth:  DepthDeep,
		RiskDetail:    DepthDeep,
		ClauseDetail:  DepthDeep,
	},
	Enterprise: {
		Tier:          Enterprise,
		MaxInputChars: 60000,
		SummaryDepth:  DepthDeep,
		RiskDetail:    DepthDeep,
		ClauseDetail:  DepthDeep,
	},
}

// Resolve maps a tier to its profile. An unrecognized tier resolves to the
// free profile rather than erroring; the downgrade is logged so a
// misconfigured caller shows up in ops.
func Resolve(name Name, logger *slog.Logger) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	if logger != nil {
		logger.Warn("tier.unknown", "tier", string(name), "fallback", string(Free))
	}
	p := profiles[Free]
	return p
}

// Known reports whether name is one of the four supported tiers.
func Known(name Name) bool {
	_, ok := profiles[name]
	return ok
}

// Truncate cuts text to at most limit characters. The cut is a hard byte
// cut, not sentence-aware; the result is always a prefix of the input.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
