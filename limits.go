package cursorable

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

// IsNormalizedLimitMax normalizes limit against maxLimit and reports whether
// the input was already within bounds. Non-positive limits fall back to
// DefaultLimit, limits above maxLimit are clamped to it.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}

// normalizeLimitDefault is NormalizeLimitMax with a configurable fallback for
// non-positive limits. Engines use it so WithDefaultLimit takes effect.
func normalizeLimitDefault(limit, maxLimit, defaultLimit int) int {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return limit
}
