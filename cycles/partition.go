package cycles

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/katalvlaran/mtc/mtcerr"
)

// ErrInvalidPartition indicates parts that do not form a point, a doubled
// edge or a simple cycle.
var ErrInvalidPartition = fmt.Errorf("%w: cycles: parts do not form a valid partition", mtcerr.ErrStructural)

// Part is one step of a cycle: an undirected comparison of A and B backed by
// a set of studies. A == B marks a cycle reduced to a point.
type Part struct {
	A, B string
	// Studies holds study ids, sorted and unique.
	Studies []string
}

// NewPart returns the canonical Part for u, v and studies.
func NewPart(u, v string, studies ...string) Part {
	if v < u {
		u, v = v, u
	}
	ss := append([]string(nil), studies...)
	sort.Strings(ss)

	return Part{A: u, B: v, Studies: slices.Compact(ss)}
}

// Point reports whether p joins a treatment with itself.
func (p Part) Point() bool { return p.A == p.B }

// Other returns the endpoint of p that is not id.
func (p Part) Other(id string) string {
	if p.A == id {
		return p.B
	}
	return p.A
}

// SameStudies reports whether p and o are backed by the same study set.
func (p Part) SameStudies(o Part) bool { return slices.Equal(p.Studies, o.Studies) }

func (p Part) key() string {
	return p.A + "-" + p.B + "{" + strings.Join(p.Studies, ",") + "}"
}

func (p Part) String() string { return p.key() }

// Partition is a set of parts forming a single point, two parts on the same
// pair, or a simple cycle. Partitions are values; Key identifies them.
type Partition struct {
	parts   []Part
	reduced bool
}

// NewPartition validates parts and returns them as a Partition. Duplicate
// parts collapse.
func NewPartition(parts ...Part) (Partition, error) {
	seen := make(map[string]bool, len(parts))
	var uniq []Part
	for _, p := range parts {
		p = NewPart(p.A, p.B, p.Studies...)
		if len(p.Studies) == 0 {
			return Partition{}, fmt.Errorf("%w: part %s has no studies", ErrInvalidPartition, p)
		}
		if seen[p.key()] {
			continue
		}
		seen[p.key()] = true
		uniq = append(uniq, p)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].key() < uniq[j].key() })

	if err := validate(uniq); err != nil {
		return Partition{}, err
	}

	return Partition{parts: uniq}, nil
}

func validate(parts []Part) error {
	switch len(parts) {
	case 0:
		return fmt.Errorf("%w: empty", ErrInvalidPartition)
	case 1:
		if !parts[0].Point() {
			return fmt.Errorf("%w: single part %s is not a point", ErrInvalidPartition, parts[0])
		}
		return nil
	case 2:
		if parts[0].Point() || parts[0].A != parts[1].A || parts[0].B != parts[1].B {
			return fmt.Errorf("%w: two parts must share one pair", ErrInvalidPartition)
		}
		return nil
	}

	inc := incidence(parts)
	if inc == nil {
		return fmt.Errorf("%w: point inside a cycle", ErrInvalidPartition)
	}
	for v, ps := range inc {
		if len(ps) != 2 {
			return fmt.Errorf("%w: treatment %q has %d incident parts", ErrInvalidPartition, v, len(ps))
		}
	}
	// connected: walking from part 0 must visit every part
	start := parts[0].A
	cur, via, steps := parts[0].B, 0, 1
	for cur != start {
		via = otherPart(inc, cur, via)
		cur = parts[via].Other(cur)
		steps++
	}
	if steps != len(parts) {
		return fmt.Errorf("%w: parts form more than one cycle", ErrInvalidPartition)
	}

	return nil
}

// incidence maps each treatment to the indices of the parts touching it. It
// returns nil when a part is a point.
func incidence(parts []Part) map[string][]int {
	inc := make(map[string][]int)
	for i, p := range parts {
		if p.Point() {
			return nil
		}
		inc[p.A] = append(inc[p.A], i)
		inc[p.B] = append(inc[p.B], i)
	}

	return inc
}

// otherPart returns the part at v that is not part i.
func otherPart(inc map[string][]int, v string, i int) int {
	ps := inc[v]
	if ps[0] == i {
		return ps[1]
	}
	return ps[0]
}

// Parts returns the parts sorted by key.
func (p Partition) Parts() []Part { return append([]Part(nil), p.parts...) }

// Len is the number of parts.
func (p Partition) Len() int { return len(p.parts) }

// Point reports whether p reduced to a single treatment.
func (p Partition) Point() bool { return len(p.parts) == 1 }

// Inconsistent reports whether p describes a potential inconsistency: a
// cycle of three or more independent parts. Only meaningful after Reduce.
func (p Partition) Inconsistent() bool { return len(p.parts) >= 3 }

// Key is a canonical string identifying p.
func (p Partition) Key() string {
	keys := make([]string, len(p.parts))
	for i, part := range p.parts {
		keys[i] = part.key()
	}
	return strings.Join(keys, " ")
}

func (p Partition) String() string { return "Partition{" + p.Key() + "}" }

// Equal reports whether p and o hold the same parts.
func (p Partition) Equal(o Partition) bool { return p.Key() == o.Key() }

// Reduce merges every run of consecutive parts backed by the same studies
// into one part. Points and doubled edges are returned unchanged. Reduce is
// idempotent.
func (p Partition) Reduce() Partition {
	if p.reduced || len(p.parts) == 1 {
		return p
	}
	inc := incidence(p.parts)

	// Start at the least treatment so cycles reducing to a point agree on
	// which point.
	v0 := p.parts[0].A
	for v := range inc {
		if v < v0 {
			v0 = v
		}
	}
	start := inc[v0][0]
	visited := make(map[int]bool, len(p.parts))

	right := p.walk(inc, start, v0, visited)
	if right == v0 {
		return Partition{parts: []Part{NewPart(v0, v0, p.parts[start].Studies...)}, reduced: true}
	}
	left := p.walk(inc, start, p.parts[start].Other(v0), visited)

	reduced := []Part{NewPart(right, left, p.parts[start].Studies...)}
	for right != left {
		next := inc[right][0]
		if visited[next] {
			next = inc[right][1]
		}
		to := p.walk(inc, next, right, visited)
		reduced = append(reduced, NewPart(right, to, p.parts[next].Studies...))
		right = to
	}

	out, err := NewPartition(reduced...)
	if err != nil {
		// Merging runs of a valid cycle always yields a valid partition.
		panic(fmt.Sprintf("cycles: reduce produced %v: %v", reduced, err))
	}
	out.reduced = true

	return out
}

// walk follows the cycle from t0 through part i and onward while the parts
// carry the same studies as part i, marking each as visited. It returns
// the treatment where the run ends, t0 itself if the run covers the cycle.
func (p Partition) walk(inc map[string][]int, i int, t0 string, visited map[int]bool) string {
	visited[i] = true
	cur := p.parts[i].Other(t0)
	via := i
	for cur != t0 {
		next := otherPart(inc, cur, via)
		if !p.parts[next].SameStudies(p.parts[i]) {
			break
		}
		visited[next] = true
		cur = p.parts[next].Other(cur)
		via = next
	}

	return cur
}
