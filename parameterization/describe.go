package parameterization

import (
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// Description is the serializable summary of a Parameterization.
type Description struct {
	Model         Model                 `json:"model" yaml:"model"`
	Tree          []TreeEdgeDescription `json:"tree" yaml:"tree"`
	Basic         []string              `json:"basic" yaml:"basic"`
	Inconsistency []string              `json:"inconsistency,omitempty" yaml:"inconsistency,omitempty"`
	Split         *SplitDescription     `json:"split,omitempty" yaml:"split,omitempty"`
	Baselines     map[string]string     `json:"baselines" yaml:"baselines"`
	Classes       []ClassDescription    `json:"classes,omitempty" yaml:"classes,omitempty"`
	Functional    []FunctionDescription `json:"functional,omitempty" yaml:"functional,omitempty"`
}

// TreeEdgeDescription is one spanning-tree edge.
type TreeEdgeDescription struct {
	Parent  string   `json:"parent" yaml:"parent"`
	Child   string   `json:"child" yaml:"child"`
	Studies []string `json:"studies" yaml:"studies"`
}

// SplitDescription is the split comparison of a node-split model.
type SplitDescription struct {
	Comparison string `json:"comparison" yaml:"comparison"`
	Direct     string `json:"direct" yaml:"direct"`
	Indirect   string `json:"indirect" yaml:"indirect"`
	// IndirectExpression is the indirect effect in basic parameters.
	IndirectExpression string `json:"indirect_expression" yaml:"indirect_expression"`
}

// ClassDescription is one cycle class.
type ClassDescription struct {
	Cycles       []string `json:"cycles" yaml:"cycles"`
	Comparisons  []string `json:"comparisons" yaml:"comparisons"`
	Inconsistent bool     `json:"inconsistent" yaml:"inconsistent"`
	Parameter    string   `json:"parameter,omitempty" yaml:"parameter,omitempty"`
}

// FunctionDescription is a derived comparison.
type FunctionDescription struct {
	Comparison string         `json:"comparison" yaml:"comparison"`
	Expression string         `json:"expression" yaml:"expression"`
	Terms      map[string]int `json:"terms" yaml:"terms"`
}

// Describe summarizes p.
func (p *Parameterization) Describe() (*Description, error) {
	d := &Description{Model: p.model, Baselines: p.Baselines()}
	for _, e := range p.tree.Edges() {
		var ss []string
		for _, s := range e.Studies {
			ss = append(ss, s.ID)
		}
		d.Tree = append(d.Tree, TreeEdgeDescription{Parent: e.Parent.ID, Child: e.Child.ID, Studies: ss})
	}
	for _, b := range p.basic {
		d.Basic = append(d.Basic, b.Name())
	}
	for _, w := range p.inconsistency {
		d.Inconsistency = append(d.Inconsistency, w.Name())
	}
	if p.split != nil {
		ind, err := p.ParameterizeIndirect()
		if err != nil {
			return nil, err
		}
		d.Split = &SplitDescription{
			Comparison:         p.split.Pair().String(),
			Direct:             p.split.Name(),
			Indirect:           p.IndirectParameter().Name(),
			IndirectExpression: ind.String(),
		}
	}
	for _, c := range p.classes.All() {
		cd := ClassDescription{Inconsistent: c.Inconsistent()}
		for _, cy := range c.Cycles() {
			cd.Cycles = append(cd.Cycles, strings.Join(cy, "-"))
		}
		for _, pr := range c.Pairs() {
			cd.Comparisons = append(cd.Comparisons, pr.String())
		}
		if w, ok := p.byClass[c]; ok {
			cd.Parameter = w.Name()
		}
		d.Classes = append(d.Classes, cd)
	}

	fns, err := p.Functional()
	if err != nil {
		return nil, err
	}
	for _, f := range fns {
		d.Functional = append(d.Functional, FunctionDescription{
			Comparison: f.Base.ID + "-" + f.Subject.ID,
			Expression: f.Expression.String(),
			Terms:      f.Expression.Names(),
		})
	}
	sort.SliceStable(d.Functional, func(i, j int) bool { return d.Functional[i].Comparison < d.Functional[j].Comparison })

	return d, nil
}

// JSONSchema describes Model as its text form.
func (Model) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{Consistency.String(), Inconsistency.String(), NodeSplit.String()},
	}
}

// DescriptionSchema returns the JSON Schema of Description.
func DescriptionSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return r.Reflect(&Description{})
}
