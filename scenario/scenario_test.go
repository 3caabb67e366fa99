// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scenario

import (
	"math"
	"testing"

	"plantopt/lpmodel"
)

const tolerance = 1e-6

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// varIndexByKey resolves a variable key like "production[JobA,IMM_1]".
func varIndexByKey(t *testing.T, m *lpmodel.Model, key string) lpmodel.VarIndex {
	t.Helper()
	for i, vd := range m.Variables() {
		if vd.Key() == key {
			return lpmodel.VarIndex(i)
		}
	}
	t.Fatalf("model has no variable %q", key)
	return 0
}

func constraintByName(t *testing.T, m *lpmodel.Model, name string) lpmodel.ConstraintDef {
	t.Helper()
	for _, c := range m.Constraints() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("model has no constraint %q", name)
	return lpmodel.ConstraintDef{}
}

func termCoeff(terms []lpmodel.Term, v lpmodel.VarIndex) float64 {
	for _, tm := range terms {
		if tm.Var == v {
			return tm.Coeff
		}
	}
	return 0
}

// staticAdapter hands back fixed values as an optimal result, with the
// objective evaluated against the model. It exercises report extraction
// without a solver.
type staticAdapter []float64

func (a staticAdapter) Solve(m *lpmodel.Model, opts lpmodel.SolveOptions) (*lpmodel.Result, error) {
	obj := m.Objective()
	val := obj.Offset
	for _, tm := range obj.Terms {
		val += tm.Coeff * a[tm.Var]
	}
	return &lpmodel.Result{Status: lpmodel.Optimal, Values: a, ObjectiveValue: val}, nil
}

// checkSatisfied asserts that the adapter's values satisfy every constraint,
// every variable bound, and reproduce the reported objective.
func checkSatisfied(t *testing.T, m *lpmodel.Model, res *lpmodel.Result) {
	t.Helper()
	if len(res.Values) != m.NumVars() {
		t.Fatalf("result has %d values for %d variables", len(res.Values), m.NumVars())
	}
	for i, vd := range m.Variables() {
		v := res.Values[i]
		if v < vd.Lower-tolerance || v > vd.Upper+tolerance {
			t.Errorf("variable %s = %v, out of bounds [%v, %v]", vd.Key(), v, vd.Lower, vd.Upper)
		}
	}
	for _, c := range m.Constraints() {
		lhs := 0.0
		for _, tm := range c.Terms {
			lhs += tm.Coeff * res.Values[tm.Var]
		}
		switch c.Op {
		case lpmodel.LessEq:
			if lhs > c.RHS+tolerance {
				t.Errorf("constraint %s violated: %v <= %v", c.Name, lhs, c.RHS)
			}
		case lpmodel.GreaterEq:
			if lhs < c.RHS-tolerance {
				t.Errorf("constraint %s violated: %v >= %v", c.Name, lhs, c.RHS)
			}
		case lpmodel.Eq:
			if !approxEqual(lhs, c.RHS) {
				t.Errorf("constraint %s violated: %v = %v", c.Name, lhs, c.RHS)
			}
		}
	}
	obj := m.Objective()
	recomputed := obj.Offset
	for _, tm := range obj.Terms {
		recomputed += tm.Coeff * res.Values[tm.Var]
	}
	if !approxEqual(recomputed, res.ObjectiveValue) {
		t.Errorf("objective recomputes to %v, adapter reported %v", recomputed, res.ObjectiveValue)
	}
}
