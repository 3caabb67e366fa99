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
	"errors"
	"testing"

	"plantopt/lpmodel"
	"plantopt/simplexlp"
)

func TestBlendingParams_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *BlendingParams)
	}{
		{
			name:   "NoMaterials",
			mutate: func(p *BlendingParams) { p.Materials = nil },
		},
		{
			name: "DuplicateMaterials",
			mutate: func(p *BlendingParams) {
				p.Materials[1].Name = p.Materials[0].Name
			},
		},
		{
			name:   "CostTooSmall",
			mutate: func(p *BlendingParams) { p.Materials[0].Cost = 0.01 },
		},
		{
			name:   "StrengthTooSmall",
			mutate: func(p *BlendingParams) { p.Materials[1].Strength = 0.5 },
		},
		{
			name:   "DensityTooSmall",
			mutate: func(p *BlendingParams) { p.Materials[2].Density = 0.05 },
		},
		{
			name:   "MinStrengthTooSmall",
			mutate: func(p *BlendingParams) { p.MinStrength = 0.5 },
		},
		{
			name:   "MaxDensityTooSmall",
			mutate: func(p *BlendingParams) { p.MaxDensity = 0.4 },
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			p := DefaultBlendingParams()
			test.mutate(&p)
			if _, err := BuildBlending(p); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("BuildBlending() returned %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestBuildBlending_Structure(t *testing.T) {
	s, err := BuildBlending(DefaultBlendingParams())
	if err != nil {
		t.Fatalf("BuildBlending() returned with unexpected error %v", err)
	}
	m := s.Model()

	if got, want := m.NumVars(), 3; got != want {
		t.Errorf("NumVars() = %d, want %d", got, want)
	}
	for _, vd := range m.Variables() {
		if vd.Lower != 0 || vd.Upper != 1 {
			t.Errorf("fraction %s has bounds [%v, %v], want [0, 1]", vd.Key(), vd.Lower, vd.Upper)
		}
	}

	mix := constraintByName(t, m, "mix")
	if mix.Op != lpmodel.Eq || !approxEqual(mix.RHS, 1) {
		t.Errorf("mix is %v %v, want = 1", mix.Op, mix.RHS)
	}
	strength := constraintByName(t, m, "strength")
	if got := termCoeff(strength.Terms, varIndexByKey(t, m, "fraction[Virgin]")); !approxEqual(got, 35) {
		t.Errorf("strength coefficient of fraction[Virgin] = %v, want 35", got)
	}
	density := constraintByName(t, m, "density")
	if density.Op != lpmodel.LessEq || !approxEqual(density.RHS, 1.1) {
		t.Errorf("density is %v %v, want <= 1.1", density.Op, density.RHS)
	}
}

// With the stock data the optimum blends equal parts virgin and regrind: the
// strength spec forces at least half virgin, the density spec never binds,
// and the additive is too expensive to help.
func TestBlending_Solve(t *testing.T) {
	s, err := BuildBlending(DefaultBlendingParams())
	if err != nil {
		t.Fatalf("BuildBlending() returned with unexpected error %v", err)
	}

	r, err := s.Solve(simplexlp.New(), lpmodel.SolveOptions{})
	if err != nil {
		t.Fatalf("Solve() returned with unexpected error %v", err)
	}
	if !approxEqual(r.CostPerKg, 1.75) {
		t.Errorf("CostPerKg = %v, want 1.75", r.CostPerKg)
	}
	want := map[string]float64{"Virgin": 0.5, "Regrind": 0.5, "Additive": 0}
	for _, row := range r.Rows {
		if !approxEqual(row.Fraction, want[row.Material]) {
			t.Errorf("fraction of %s = %v, want %v", row.Material, row.Fraction, want[row.Material])
		}
	}

	res, err := simplexlp.New().Solve(s.Model(), lpmodel.SolveOptions{})
	if err != nil {
		t.Fatalf("adapter Solve() returned with unexpected error %v", err)
	}
	checkSatisfied(t, s.Model(), res)
}

func TestBlending_Infeasible(t *testing.T) {
	p := DefaultBlendingParams()
	// No material reaches 60 MPa, so no blend can.
	p.MinStrength = 60
	s, err := BuildBlending(p)
	if err != nil {
		t.Fatalf("BuildBlending() returned with unexpected error %v", err)
	}

	if _, err := s.Solve(simplexlp.New(), lpmodel.SolveOptions{}); !errors.Is(err, lpmodel.ErrInfeasible) {
		t.Errorf("Solve() returned %v, want ErrInfeasible", err)
	}
}
