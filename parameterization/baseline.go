package parameterization

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/cycles"
	"github.com/katalvlaran/mtc/internal/telemetry"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/search"
	"github.com/katalvlaran/mtc/spanningtree"
)

// resolveBaselines maps explicit study → treatment ids onto the network's
// canonical instances.
func resolveBaselines(n *model.Network, explicit map[string]string) (map[string]*model.Treatment, error) {
	out := make(map[string]*model.Treatment, len(explicit))
	for sid, tid := range explicit {
		s, ok := n.Study(sid)
		if !ok {
			return nil, fmt.Errorf("%w: unknown study %q", ErrInvalidBaseline, sid)
		}
		var found *model.Treatment
		for _, t := range s.Treatments() {
			if t.ID == tid {
				found = t
			}
		}
		if found == nil {
			return nil, fmt.Errorf("%w: %q is not an arm of study %q", ErrInvalidBaseline, tid, sid)
		}
		out[sid] = found
	}

	return out, nil
}

// consistencyBaselines picks, for every study without a fixed baseline, the
// arm with the highest degree in the spanning tree; ties go to the smallest
// id.
func consistencyBaselines(studies []*model.Study, tree *spanningtree.Tree, fixed map[string]*model.Treatment) map[string]*model.Treatment {
	out := make(map[string]*model.Treatment, len(studies))
	for _, s := range studies {
		if b, ok := fixed[s.ID]; ok {
			out[s.ID] = b
			continue
		}
		var best *model.Treatment
		for _, t := range s.Treatments() {
			if best == nil || tree.Degree(t.ID) > tree.Degree(best.ID) {
				best = t
			}
		}
		if best != nil {
			out[s.ID] = best
		}
	}

	return out
}

// baselineState is a partial assignment; chosen[i] belongs to studies[i]
// and is nil while unassigned.
type baselineState struct {
	chosen []*model.Treatment
}

func (s *baselineState) Key() string {
	ids := make([]string, len(s.chosen))
	for i, t := range s.chosen {
		if t != nil {
			ids[i] = t.ID
		}
	}
	return strings.Join(ids, "|")
}

// baselineProblem searches for study baselines under which every cycle of
// every class misses at most one comparison and every inconsistent class
// has a fully covered cycle.
type baselineProblem struct {
	studies []*model.Study
	classes *cycles.Classes
	fixed   map[string]*model.Treatment
}

func (p *baselineProblem) Initial() *baselineState {
	s := &baselineState{chosen: make([]*model.Treatment, len(p.studies))}
	for i, st := range p.studies {
		if b, ok := p.fixed[st.ID]; ok {
			s.chosen[i] = b
			continue
		}
		if arms := st.Treatments(); len(arms) == 2 {
			s.chosen[i] = arms[0]
		}
	}
	return s
}

func (p *baselineProblem) Successors(s *baselineState) []*baselineState {
	for i, t := range s.chosen {
		if t != nil {
			continue
		}
		arms := p.studies[i].Treatments()
		out := make([]*baselineState, len(arms))
		for j, arm := range arms {
			next := &baselineState{chosen: append([]*model.Treatment(nil), s.chosen...)}
			next.chosen[i] = arm
			out[j] = next
		}
		return out
	}
	return nil
}

func (p *baselineProblem) IsGoal(s *baselineState) bool {
	for _, t := range s.chosen {
		if t == nil {
			return false
		}
	}
	return covers(p.classes, p.covered(s.chosen))
}

func (p *baselineProblem) covered(chosen []*model.Treatment) map[comparison.Pair]bool {
	cov := make(map[comparison.Pair]bool)
	for i, st := range p.studies {
		for _, t := range st.Treatments() {
			if t != chosen[i] {
				cov[comparison.NewPair(chosen[i].ID, t.ID)] = true
			}
		}
	}
	return cov
}

func covers(classes *cycles.Classes, cov map[comparison.Pair]bool) bool {
	for _, c := range classes.All() {
		complete := false
		for _, cycle := range c.Cycles() {
			missing := 0
			for i := 1; i < len(cycle); i++ {
				if !cov[comparison.NewPair(cycle[i-1], cycle[i])] {
					missing++
				}
			}
			if missing > 1 {
				return false
			}
			complete = complete || missing == 0
		}
		if c.Inconsistent() && !complete {
			return false
		}
	}
	return true
}

// inconsistencyBaselines runs the baseline search for the given classes.
func inconsistencyBaselines(
	ctx context.Context,
	studies []*model.Study,
	classes *cycles.Classes,
	fixed map[string]*model.Treatment,
	maxExpansions int,
) (map[string]*model.Treatment, error) {
	var armed []*model.Study
	for _, s := range studies {
		if len(s.Measurements) > 0 {
			armed = append(armed, s)
		}
	}
	p := &baselineProblem{studies: armed, classes: classes, fixed: fixed}
	var stats search.Stats
	goal, err := search.Search[*baselineState](p, search.DepthFirst[*baselineState](),
		search.WithContext(ctx),
		search.WithMaxExpansions(maxExpansions),
		search.WithStats(&stats),
	)
	telemetry.SearchExpansions.WithLabelValues("baselines").Add(float64(stats.Expanded))
	switch {
	case errors.Is(err, search.ErrNoSolution):
		return nil, ErrNoBaselineAssignment
	case err != nil:
		return nil, fmt.Errorf("parameterization: baselines: %w", err)
	}

	out := make(map[string]*model.Treatment, len(armed))
	for i, s := range armed {
		out[s.ID] = goal.chosen[i]
	}

	return out, nil
}
