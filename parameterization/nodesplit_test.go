package parameterization_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mtc/comparison"
	"github.com/katalvlaran/mtc/internal/fixture"
	"github.com/katalvlaran/mtc/model"
	"github.com/katalvlaran/mtc/mtcerr"
	"github.com/katalvlaran/mtc/parameterization"
	"github.com/katalvlaran/mtc/spanningtree"
)

// cycleWithTails is the triangle ABC with two pendant comparisons at C.
func cycleWithTails() *model.Network {
	return fixture.Network(fixture.Arms{
		"s1": {"A", "B"}, "s2": {"A", "C"}, "s3": {"B", "C"}, "s4": {"C", "D"}, "s5": {"C", "E"},
	})
}

// multiArmWithTails replaces the BC study of cycleWithTails by ABC.
func multiArmWithTails() *model.Network {
	return fixture.Network(fixture.Arms{
		"s1": {"A", "B"}, "s2": {"A", "C"}, "s3": {"A", "B", "C"}, "s4": {"C", "D"}, "s5": {"C", "E"},
	})
}

// twoPlusFour is AB, CD and the four-arm study ABCD.
func twoPlusFour() *model.Network {
	return fixture.Network(fixture.Arms{"s1": {"A", "B"}, "s2": {"C", "D"}, "s3": {"A", "B", "C", "D"}})
}

// fixedTree builds a tree of n from "parent-child" edges in root-outward
// order.
func fixedTree(t *testing.T, n *model.Network, root string, edges ...string) *spanningtree.Tree {
	t.Helper()
	g, err := comparison.Build(n)
	require.NoError(t, err)
	r, err := g.Treatment(root)
	require.NoError(t, err)
	var es []spanningtree.Edge
	for _, e := range edges {
		ids := strings.Split(e, "-")
		p, err := g.Treatment(ids[0])
		require.NoError(t, err)
		c, err := g.Treatment(ids[1])
		require.NoError(t, err)
		es = append(es, spanningtree.Edge{Parent: p, Child: c, Studies: g.Studies(ids[0], ids[1])})
	}
	tr, err := spanningtree.NewTree(g, r, es)
	require.NoError(t, err)
	return tr
}

func nodeSplit(a, b string) []parameterization.Option {
	return []parameterization.Option{
		parameterization.WithModel(parameterization.NodeSplit),
		parameterization.WithSplit(a, b),
	}
}

func TestSplittableNodes(t *testing.T) {
	for name, tc := range map[string]struct {
		n    *model.Network
		want []string
	}{
		"two-arm cycle":      {cycleWithTails(), []string{"d.A.B", "d.A.C", "d.B.C"}},
		"multi-arm cycle":    {multiArmWithTails(), []string{"d.B.C"}},
		"no cycle":           {fixture.Network(fixture.Arms{"s1": {"A", "B"}, "s2": {"A", "C"}}), nil},
		"four-arm reduction": {twoPlusFour(), []string{"d.A.C", "d.A.D", "d.B.C", "d.B.D"}},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := parameterization.SplittableNodes(tc.n)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, names(got))
		})
	}
}

func TestSplittable(t *testing.T) {
	g, err := comparison.Build(multiArmWithTails())
	require.NoError(t, err)

	ok, err := parameterization.Splittable(g, comparison.NewPair("C", "B"))
	require.NoError(t, err)
	assert.True(t, ok)

	// The only other AB evidence is the three-arm study, which keeps a
	// single arm once A and B are removed.
	ok, err = parameterization.Splittable(g, comparison.NewPair("A", "B"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = parameterization.Splittable(g, comparison.NewPair("A", "Z"))
	assert.ErrorIs(t, err, comparison.ErrUnknownTreatment)
}

func TestBuild_NodeSplit(t *testing.T) {
	p := buildModel(t, cycleWithTails(), nodeSplit("B", "A")...)

	assert.Equal(t, parameterization.NodeSplit, p.Model())
	split, ok := p.Split()
	require.True(t, ok)
	assert.Equal(t, comparison.NewPair("A", "B"), split)
	assert.False(t, p.Tree().Contains("A", "B"))
	assert.ElementsMatch(t, []string{"d.A.C", "d.B.C", "d.C.D", "d.C.E"}, names(p.BasicParameters()))

	params := p.Parameters()
	require.Len(t, params, 5)
	assert.Equal(t, "d.A.B.dir", params[4].Name())
	assert.Equal(t, "d.A.B.dir", p.DirectParameter().Name())
	assert.Equal(t, "d.A.B.ind", p.IndirectParameter().Name())
	assert.Zero(t, p.InconsistencyDegree())

	ab, err := p.Parameterize("A", "B")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"d.A.B.dir": 1}, ab.Names())
	ba, err := p.Parameterize("B", "A")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"d.A.B.dir": -1}, ba.Names())

	ind, err := p.ParameterizeIndirect()
	require.NoError(t, err)
	assert.Equal(t, "+d.A.C -d.B.C", ind.String())

	de, err := p.Parameterize("D", "E")
	require.NoError(t, err)
	assert.Equal(t, "-d.C.D +d.C.E", de.String())

	arms, err := p.ParameterizeStudy("s1")
	require.NoError(t, err)
	require.Len(t, arms, 1)
	assert.Equal(t, "+d.A.B.dir", arms[0].Expression.String())
}

func TestBuild_NodeSplitMultiArm(t *testing.T) {
	p := buildModel(t, multiArmWithTails(), nodeSplit("B", "C")...)

	// B and C are taboo as baseline of the three-arm study.
	assert.Equal(t, "A", p.Baselines()["s3"])

	arms, err := p.ParameterizeStudy("s3")
	require.NoError(t, err)
	require.Len(t, arms, 2)
	assert.Equal(t, "A", arms[0].Base.ID)
	assert.Equal(t, "B", arms[0].Subject.ID)
	assert.Equal(t, "+d.A.B", arms[0].Expression.String())
	assert.Equal(t, "B", arms[1].Base.ID)
	assert.Equal(t, "C", arms[1].Subject.ID)
	assert.Equal(t, "+d.B.C.dir", arms[1].Expression.String())

	d, err := p.Describe()
	require.NoError(t, err)
	require.NotNil(t, d.Split)
	assert.Equal(t, "B-C", d.Split.Comparison)
	assert.Equal(t, "d.B.C.dir", d.Split.Direct)
	assert.Equal(t, "d.B.C.ind", d.Split.Indirect)
	assert.Equal(t, "-d.A.B +d.A.C", d.Split.IndirectExpression)
}

func TestBuild_NodeSplitFourArm(t *testing.T) {
	tree := fixedTree(t, twoPlusFour(), "D", "D-A", "D-B", "D-C")
	p := buildModel(t, twoPlusFour(), append(nodeSplit("A", "C"), parameterization.WithTree(tree))...)

	assert.Equal(t, "D", p.Baselines()["s3"])
	arms, err := p.ParameterizeStudy("s3")
	require.NoError(t, err)
	var got []string
	for _, c := range arms {
		got = append(got, c.Base.ID+c.Subject.ID+" "+c.Expression.String())
	}
	assert.Equal(t, []string{"DA -d.A.D", "DB -d.B.D", "AC +d.A.C.dir"}, got)

	ind, err := p.ParameterizeIndirect()
	require.NoError(t, err)
	assert.Equal(t, "+d.A.D -d.C.D", ind.String())
}

func TestBuild_NodeSplitErrors(t *testing.T) {
	for name, opts := range map[string][]parameterization.Option{
		"missing split":      {parameterization.WithModel(parameterization.NodeSplit)},
		"not a comparison":   nodeSplit("A", "E"),
		"no indirect path":   nodeSplit("C", "D"),
		"consistency model":  {parameterization.WithSplit("A", "B")},
		"unknown treatments": nodeSplit("A", "Z"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parameterization.Build(cycleWithTails(), opts...)
			require.ErrorIs(t, err, parameterization.ErrInvalidSplit)
			assert.ErrorIs(t, mtcerr.Category(err), mtcerr.ErrConfiguration)
		})
	}

	tree := fixedTree(t, cycleWithTails(), "C", "C-A", "A-B", "C-D", "C-E")
	_, err := parameterization.Build(cycleWithTails(), append(nodeSplit("A", "B"), parameterization.WithTree(tree))...)
	assert.ErrorIs(t, err, parameterization.ErrInvalidTree)

	p := buildModel(t, cycleWithTails())
	_, ok := p.Split()
	assert.False(t, ok)
	assert.Nil(t, p.DirectParameter())
	assert.Nil(t, p.IndirectParameter())
	_, err = p.ParameterizeIndirect()
	assert.ErrorIs(t, err, parameterization.ErrInvalidSplit)
}

func TestBuild_WithTree(t *testing.T) {
	tree := fixedTree(t, fixture.Triangle(), "A", "A-B", "B-C")
	p := buildModel(t, fixture.Triangle(), parameterization.WithTree(tree))

	assert.Same(t, tree, p.Tree())
	assert.Equal(t, []string{"d.A.B", "d.B.C"}, names(p.BasicParameters()))
	ac, err := p.Parameterize("A", "C")
	require.NoError(t, err)
	assert.Equal(t, "+d.A.B +d.B.C", ac.String())

	w := buildModel(t, fixture.Triangle(), inconsistency, parameterization.WithTree(tree))
	assert.Equal(t, []string{"d.A.B", "d.B.C", "w.A.B.C"}, names(w.Parameters()))

	// The star at A admits no baseline assignment for four-arm.
	star := fixedTree(t, fixture.FourArm(), "A", "A-B", "A-C", "A-D")
	_, err = parameterization.Build(fixture.FourArm(), inconsistency, parameterization.WithTree(star))
	assert.ErrorIs(t, err, parameterization.ErrNoBaselineAssignment)

	_, err = parameterization.Build(fixture.FourArm(), parameterization.WithTree(tree))
	assert.ErrorIs(t, err, parameterization.ErrInvalidTree)
}

func TestLess_SplitParameters(t *testing.T) {
	a := &model.Treatment{ID: "A"}
	b := &model.Treatment{ID: "B"}
	ps := []parameterization.NetworkParameter{
		&parameterization.InconsistencyParameter{Cycle: []string{"A", "B", "C", "A"}},
		&parameterization.SplitParameter{Base: a, Subject: b},
		&parameterization.SplitParameter{Base: a, Subject: b, Direct: true},
		parameterization.NewBasicParameter(b, a),
	}
	parameterization.SortParameters(ps)
	assert.Equal(t, []string{"d.A.B", "d.A.B.dir", "d.A.B.ind", "w.A.B.C"}, names(ps))
}
