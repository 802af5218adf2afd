package signature

import "sort"

// Compare orders two candidate param lists, most specific first. It returns a
// negative number when a is more specific, positive when b is, zero on a tie.
//
// Rules, earlier ones dominating:
//  1. a rest param admitting any ranks last
//  2. fewer any-typed params first
//  3. a rest param needing a conversion ranks after one that does not
//  4. fewer conversions first
//  5. no rest param before a rest param
//  6. with rest params the shorter list first, without them the longer
//  7. param-by-param comparison, summed; the first non-zero decides a tied sum
func Compare(a, b []*Param) int {
	restA, restB := HasRest(a), HasRest(b)
	var lastA, lastB *Param
	if restA {
		lastA = a[len(a)-1]
	}
	if restB {
		lastB = b[len(b)-1]
	}

	if restA && lastA.HasAny {
		if !restB || !lastB.HasAny {
			return 1
		}
	} else if restB && lastB.HasAny {
		return -1
	}

	anyA, convA := counts(a)
	anyB, convB := counts(b)
	if anyA != anyB {
		return anyA - anyB
	}

	if restA && lastA.HasConversion {
		if !restB || !lastB.HasConversion {
			return 1
		}
	} else if restB && lastB.HasConversion {
		return -1
	}

	if convA != convB {
		return convA - convB
	}

	if restA != restB {
		if restA {
			return 1
		}
		return -1
	}

	if len(a) != len(b) {
		if restA {
			return len(a) - len(b)
		}
		return len(b) - len(a)
	}

	comparisons := make([]int, len(a))
	total := 0
	for i := range a {
		comparisons[i] = compareParams(a[i], b[i])
		total += comparisons[i]
	}
	if total != 0 {
		return total
	}
	for _, c := range comparisons {
		if c != 0 {
			return c
		}
	}
	return 0
}

func counts(params []*Param) (anys, convs int) {
	for _, p := range params {
		if p.HasAny {
			anys++
		}
		if p.HasConversion {
			convs++
		}
	}
	return anys, convs
}

// compareParams returns -1, 0 or 1.
func compareParams(a, b *Param) int {
	if c := preferFalse(a.HasAny, b.HasAny); c != 0 {
		return c
	}
	if c := preferFalse(a.Rest, b.Rest); c != 0 {
		return c
	}
	if c := preferFalse(a.HasConversion, b.HasConversion); c != 0 {
		return c
	}
	if c := sign(a.lowestTypeIndex(), b.lowestTypeIndex()); c != 0 {
		return c
	}
	return sign(a.lowestConversionIndex(), b.lowestConversionIndex())
}

func preferFalse(a, b bool) int {
	switch {
	case a && !b:
		return 1
	case !a && b:
		return -1
	}
	return 0
}

func sign(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sort orders candidates in place, most specific first. The sort is stable.
func Sort(candidates [][]*Param) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return Compare(candidates[i], candidates[j]) < 0
	})
}
