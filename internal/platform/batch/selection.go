package batch

import "math"

// Select elige hasta n identificadores de ids para hidratar.
//
// The first HeadFraction*n come from the head of the list (presumed most
// relevant); the rest are sampled at a fixed stride across the
// [BandStart, BandEnd) percentile band for variety. Picks already taken by the
// head are skipped and any shortfall is filled sequentially after the head.
// The result never contains duplicates and preserves no particular order
// beyond head-first.
func Select[K comparable](ids []K, n int, cfg Config) []K {
	cfg = cfg.Normalize()
	if n <= 0 || len(ids) == 0 {
		return []K{}
	}
	if len(ids) <= n {
		return append([]K(nil), ids...)
	}

	head := int(math.Ceil(float64(n) * cfg.HeadFraction))
	if head > n {
		head = n
	}

	out := make([]K, 0, n)
	seen := make(map[int]bool, n)
	take := func(i int) {
		if len(out) < n && !seen[i] {
			seen[i] = true
			out = append(out, ids[i])
		}
	}

	for i := 0; i < head; i++ {
		take(i)
	}

	rest := n - head
	if rest > 0 {
		start := int(float64(len(ids)) * cfg.BandStart)
		end := int(float64(len(ids)) * cfg.BandEnd)
		if end > len(ids) {
			end = len(ids)
		}
		stride := 1
		if span := end - start; span > rest {
			stride = span / rest
		}
		for i := start; i < end && len(out) < n; i += stride {
			take(i)
		}
	}

	for i := head; i < len(ids) && len(out) < n; i++ {
		take(i)
	}
	return out
}
