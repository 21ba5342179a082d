package parameterization

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/model"
)

// NetworkParameter is a parameter of the network model.
type NetworkParameter interface {
	Name() string
	fmt.Stringer
}

// BasicParameter is the relative effect of Subject over Base along a
// spanning-tree edge. Base always has the smaller id.
type BasicParameter struct {
	Base, Subject *model.Treatment
}

// NewBasicParameter returns the canonically oriented parameter for a and b.
func NewBasicParameter(a, b *model.Treatment) *BasicParameter {
	if b.ID < a.ID {
		a, b = b, a
	}
	return &BasicParameter{Base: a, Subject: b}
}

// Name is "d.<base>.<subject>".
func (p *BasicParameter) Name() string { return "d." + p.Base.ID + "." + p.Subject.ID }

func (p *BasicParameter) String() string { return p.Name() }

// Pair returns the comparison the parameter belongs to.
func (p *BasicParameter) Pair() comparison.Pair { return comparison.NewPair(p.Base.ID, p.Subject.ID) }

// InconsistencyParameter absorbs the disagreement around one inconsistent
// cycle class.
type InconsistencyParameter struct {
	// Cycle is the standardized representative cycle of the class.
	Cycle []string
}

// Name is "w." followed by the cycle without its closing repeat.
func (p *InconsistencyParameter) Name() string {
	return "w." + strings.Join(p.Cycle[:len(p.Cycle)-1], ".")
}

func (p *InconsistencyParameter) String() string { return p.Name() }

// Less orders basic parameters first, then split parameters (direct before
// indirect), then inconsistency parameters; within a kind by treatment ids.
func Less(a, b NetworkParameter) bool {
	if ka, kb := kind(a), kind(b); ka != kb {
		return ka < kb
	}
	switch pa := a.(type) {
	case *BasicParameter:
		return pa.Pair().Less(b.(*BasicParameter).Pair())
	case *SplitParameter:
		pb := b.(*SplitParameter)
		if pa.Pair() != pb.Pair() {
			return pa.Pair().Less(pb.Pair())
		}
		return pa.Direct && !pb.Direct
	}
	ia, ib := a.(*InconsistencyParameter), b.(*InconsistencyParameter)
	n := min(len(ia.Cycle), len(ib.Cycle))
	for i := 0; i < n; i++ {
		if ia.Cycle[i] != ib.Cycle[i] {
			return ia.Cycle[i] < ib.Cycle[i]
		}
	}
	return len(ia.Cycle) < len(ib.Cycle)
}

func kind(p NetworkParameter) int {
	switch p.(type) {
	case *BasicParameter:
		return 0
	case *SplitParameter:
		return 1
	}
	return 2
}

// SortParameters sorts ps in place with Less.
func SortParameters(ps []NetworkParameter) {
	sort.SliceStable(ps, func(i, j int) bool { return Less(ps[i], ps[j]) })
}

// Expression is a signed sum of parameters. Parameters with a zero
// coefficient are absent.
type Expression map[NetworkParameter]int

func (e Expression) add(p NetworkParameter, c int) {
	e[p] += c
	if e[p] == 0 {
		delete(e, p)
	}
}

// Names returns the coefficients keyed by parameter name.
func (e Expression) Names() map[string]int {
	out := make(map[string]int, len(e))
	for p, c := range e {
		out[p.Name()] = c
	}
	return out
}

// Terms returns the parameters of e in Less order.
func (e Expression) Terms() []NetworkParameter {
	ps := make([]NetworkParameter, 0, len(e))
	for p := range e {
		ps = append(ps, p)
	}
	SortParameters(ps)
	return ps
}

// String renders e as "+d.A.B -d.B.C +w.A.B.C"; coefficients other than
// ±1 are written in front of the name.
func (e Expression) String() string {
	if len(e) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, p := range e.Terms() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		c := e[p]
		switch {
		case c == 1:
			sb.WriteByte('+')
		case c == -1:
			sb.WriteByte('-')
		default:
			fmt.Fprintf(&sb, "%+d*", c)
		}
		sb.WriteString(p.Name())
	}
	return sb.String()
}
