package signature

// Conflicting reports whether a and b can match the same argument list with
// no specificity rule to prefer one: their declared type sets overlap at every
// position and their arities are compatible.
func Conflicting(a, b []*Param) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !overlaps(TypeSetAt(a, i), TypeSetAt(b, i)) {
			return false
		}
	}

	restA, restB := HasRest(a), HasRest(b)
	switch {
	case restA && restB:
		return len(a) == len(b)
	case restA:
		return len(b) >= len(a)
	case restB:
		return len(a) >= len(b)
	default:
		return len(a) == len(b)
	}
}

func overlaps(a, b map[string]bool) bool {
	for name := range b {
		if a[name] {
			return true
		}
	}
	return false
}
