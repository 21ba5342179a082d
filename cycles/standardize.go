package cycles

import "slices"

// Standardize returns the standard form of a closed cycle [v0, v1, ..., v0]
// whose vertices are distinct:
//
//  1. rotate so the least treatment id comes first;
//  2. if its predecessor is smaller than its successor, reverse direction;
//  3. close the cycle by repeating the first vertex.
//
// The input is not modified. Inputs shorter than two vertices are returned
// as a copy.
func Standardize(cycle []string) []string {
	if len(cycle) < 2 {
		return append([]string(nil), cycle...)
	}
	base := cycle[:len(cycle)-1]
	n := len(base)

	least := 0
	for i, v := range base {
		if v < base[least] {
			least = i
		}
	}
	out := make([]string, 0, n+1)
	out = append(out, base[least:]...)
	out = append(out, base[:least]...)

	if n > 2 && out[n-1] < out[1] {
		slices.Reverse(out[1:])
	}

	return append(out, out[0])
}

// CompareCycles orders standardized cycles: shorter first, then
// element-wise by treatment id.
func CompareCycles(a, b []string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}

// Contains reports whether the closed cycle walks from u directly to v.
func Contains(cycle []string, u, v string) bool {
	for i := 1; i < len(cycle); i++ {
		if cycle[i-1] == u && cycle[i] == v {
			return true
		}
	}
	return false
}
