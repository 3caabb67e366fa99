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
	"plantopt/lpmodel"
)

// Material is one blend component with its cost and quality properties.
type Material struct {
	Name string `yaml:"name"`
	// Cost in $/kg. Must be >= 0.1.
	Cost float64 `yaml:"cost"`
	// Strength is the tensile strength in MPa. Must be >= 1.
	Strength float64 `yaml:"strength"`
	// Density in g/cm^3. Must be >= 0.1.
	Density float64 `yaml:"density"`
}

// BlendingParams describes a material blending run: choose blend fractions
// minimizing cost while meeting strength and density specs.
type BlendingParams struct {
	Materials []Material `yaml:"materials"`
	// MinStrength is the minimum blended strength in MPa. Must be >= 1.
	MinStrength float64 `yaml:"min_strength"`
	// MaxDensity is the maximum blended density in g/cm^3. Must be >= 0.5.
	MaxDensity float64 `yaml:"max_density"`
}

// DefaultBlendingParams returns the stock virgin/regrind/additive data set.
func DefaultBlendingParams() BlendingParams {
	return BlendingParams{
		Materials: []Material{
			{Name: "Virgin", Cost: 2.5, Strength: 35, Density: 1.05},
			{Name: "Regrind", Cost: 1.0, Strength: 25, Density: 0.95},
			{Name: "Additive", Cost: 5.0, Strength: 50, Density: 1.20},
		},
		MinStrength: 30,
		MaxDensity:  1.1,
	}
}

// Validate rejects out-of-range parameters before model construction.
func (p BlendingParams) Validate() error {
	if len(p.Materials) == 0 {
		return invalidf("materials must be non-empty")
	}
	names := make([]string, len(p.Materials))
	for i, m := range p.Materials {
		names[i] = m.Name
		if m.Cost < 0.1 {
			return invalidf("cost of material %q must be >= 0.1", m.Name)
		}
		if m.Strength < 1 {
			return invalidf("strength of material %q must be >= 1", m.Name)
		}
		if m.Density < 0.1 {
			return invalidf("density of material %q must be >= 0.1", m.Name)
		}
	}
	if !uniqueNonEmpty(names) {
		return invalidf("material names must be non-empty and unique")
	}
	if p.MinStrength < 1 {
		return invalidf("minimum strength must be >= 1")
	}
	if p.MaxDensity < 0.5 {
		return invalidf("maximum density must be >= 0.5")
	}
	return nil
}

// Blending is a built blending model together with its fraction variables.
type Blending struct {
	params    BlendingParams
	model     *lpmodel.Model
	fractions []lpmodel.Var // same order as params.Materials
}

// BuildBlending validates the parameters and formulates the model.
func BuildBlending(p BlendingParams) (*Blending, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mb := lpmodel.NewModelBuilder()
	s := &Blending{params: p, fractions: make([]lpmodel.Var, len(p.Materials))}
	for i, m := range p.Materials {
		s.fractions[i] = mb.NewBoundedVar(0, 1, "fraction", m.Name)
	}

	cost := lpmodel.NewLinearExpr()
	mix := lpmodel.NewLinearExpr()
	strength := lpmodel.NewLinearExpr()
	density := lpmodel.NewLinearExpr()
	for i, m := range p.Materials {
		cost.AddTerm(s.fractions[i], m.Cost)
		mix.Add(s.fractions[i])
		strength.AddTerm(s.fractions[i], m.Strength)
		density.AddTerm(s.fractions[i], m.Density)
	}
	mb.Minimize(cost)
	mb.AddConstraint("mix", lpmodel.Equal(mix, 1))
	mb.AddConstraint("strength", lpmodel.GreaterOrEqual(strength, p.MinStrength))
	mb.AddConstraint("density", lpmodel.LessOrEqual(density, p.MaxDensity))

	model, err := mb.Model()
	if err != nil {
		return nil, err
	}
	s.model = model
	return s, nil
}

// Model returns the formulated model.
func (s *Blending) Model() *lpmodel.Model { return s.model }

// BlendRow is the chosen fraction of one material.
type BlendRow struct {
	Material string
	Fraction float64
}

// BlendingReport is the extracted blend.
type BlendingReport struct {
	// CostPerKg is the objective: blended cost in $/kg.
	CostPerKg float64
	Rows      []BlendRow
}

// Solve hands the model to the adapter and extracts the report.
func (s *Blending) Solve(adapter lpmodel.Adapter, opts lpmodel.SolveOptions) (*BlendingReport, error) {
	sol, err := lpmodel.Solve(s.model, adapter, opts)
	if err != nil {
		return nil, err
	}
	return s.Report(sol), nil
}

// Report extracts the blend from a solution of this model.
func (s *Blending) Report(sol *lpmodel.Solution) *BlendingReport {
	r := &BlendingReport{CostPerKg: sol.Objective()}
	for i, m := range s.params.Materials {
		r.Rows = append(r.Rows, BlendRow{Material: m.Name, Fraction: sol.Value(s.fractions[i])})
	}
	return r
}
