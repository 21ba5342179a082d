// Package fixture provides small evidence networks shared by the tests of
// several packages.
package fixture

import (
	"sort"

	"github.com/katalvlaran/mtc/model"
)

// Arms describes a network as study id → treatment ids.
type Arms map[string][]string

// Network builds an outcome-less network from arms. Every treatment that
// appears in an arm, plus extra, becomes a member. It panics on invalid
// input; fixtures are static.
func Network(arms Arms, extra ...string) *model.Network {
	b := model.NewBuilder()
	for _, id := range extra {
		if _, err := b.AddTreatment(id, ""); err != nil {
			panic(err)
		}
	}
	for _, sid := range sortedKeys(arms) {
		for _, tid := range arms[sid] {
			if err := b.AddNone(sid, tid); err != nil {
				panic(err)
			}
		}
	}
	n, err := b.Build()
	if err != nil {
		panic(err)
	}

	return n
}

// Triangle is three two-arm studies AB, BC, AC.
func Triangle() *model.Network {
	return Network(Arms{"s1": {"A", "B"}, "s2": {"B", "C"}, "s3": {"A", "C"}})
}

// WeightedTriangle is Triangle with two extra studies on AC and one on BC,
// so AC (3 studies) and BC (2 studies) are the best supported edges.
func WeightedTriangle() *model.Network {
	return Network(Arms{
		"s1": {"A", "B"},
		"s2": {"B", "C"}, "s3": {"B", "C"},
		"s4": {"A", "C"}, "s5": {"A", "C"}, "s6": {"A", "C"},
	})
}

// FourArm is the classic four-treatment network: one three-arm study
// {B, C, D} plus two-arm studies AB, AC, AD.
func FourArm() *model.Network {
	return Network(Arms{"1": {"D", "B", "C"}, "2": {"A", "B"}, "3": {"A", "C"}, "4": {"A", "D"}})
}

// MultiArmTriangle is a three-arm study ABC plus two-arm studies AB and BC.
// Its single cycle has one degree of inconsistency.
func MultiArmTriangle() *model.Network {
	return Network(Arms{"1": {"A", "B"}, "2": {"A", "B", "C"}, "3": {"B", "C"}})
}

// Disconnected has two components {A, B} and {C, D}.
func Disconnected() *model.Network {
	return Network(Arms{"s1": {"A", "B"}, "s2": {"C", "D"}})
}

// Star has a hub A compared with B, C, D and no loops.
func Star() *model.Network {
	return Network(Arms{"s1": {"A", "B"}, "s2": {"A", "C"}, "s3": {"A", "D"}})
}

// Ladder is a larger two-arm network with several independent loops:
// A-B-C-D-E-F chain plus rungs A-C, B-D, C-E, D-F, A-F.
func Ladder() *model.Network {
	return Network(Arms{
		"s01": {"A", "B"}, "s02": {"B", "C"}, "s03": {"C", "D"}, "s04": {"D", "E"}, "s05": {"E", "F"},
		"s06": {"A", "C"}, "s07": {"B", "D"}, "s08": {"C", "E"}, "s09": {"D", "F"}, "s10": {"A", "F"},
		"s11": {"A", "B"}, "s12": {"C", "D"},
	})
}

func sortedKeys(a Arms) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
