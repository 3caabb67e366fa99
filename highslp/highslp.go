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

// Package highslp adapts the HiGHS solver to the lpmodel.Adapter interface.
// It handles both continuous and binary variables (mixed-integer models).
package highslp

import (
	"math"

	"github.com/bartolsthoorn/gohighs/highs"

	"plantopt/lpmodel"
)

// Adapter solves models with HiGHS.
type Adapter struct{}

// New returns a HiGHS-backed adapter.
func New() *Adapter {
	return &Adapter{}
}

// Solve implements lpmodel.Adapter.
func (a *Adapter) Solve(m *lpmodel.Model, opts lpmodel.SolveOptions) (*lpmodel.Result, error) {
	hm := translate(m)

	solveOpts := []highs.SolveOption{highs.WithOutput(opts.EnableOutput)}
	if opts.TimeLimit > 0 {
		solveOpts = append(solveOpts, highs.WithTimeLimit(opts.TimeLimit.Seconds()))
	}
	if opts.MIPRelGap > 0 {
		solveOpts = append(solveOpts, highs.WithMIPRelGap(opts.MIPRelGap))
	}

	sol, err := hm.Solve(solveOpts...)
	if err != nil {
		return nil, err
	}

	res := &lpmodel.Result{Status: status(sol)}
	if sol.HasSolution() {
		res.Values = sol.ColValues
		res.ObjectiveValue = sol.Objective
	}
	return res, nil
}

// translate converts the model into the column/row form HiGHS consumes.
func translate(m *lpmodel.Model) *highs.Model {
	vars := m.Variables()
	hm := &highs.Model{
		Maximize: m.Objective().Maximize,
		Offset:   m.Objective().Offset,
		ColCosts: make([]float64, len(vars)),
		ColLower: make([]float64, len(vars)),
		ColUpper: make([]float64, len(vars)),
	}

	hasBinary := false
	for i, vd := range vars {
		hm.ColLower[i] = vd.Lower
		hm.ColUpper[i] = vd.Upper
		if vd.Domain == lpmodel.Binary {
			hasBinary = true
		}
	}
	if hasBinary {
		hm.VarTypes = make([]highs.VariableType, len(vars))
		for i, vd := range vars {
			if vd.Domain == lpmodel.Binary {
				hm.VarTypes[i] = highs.Integer
			} else {
				hm.VarTypes[i] = highs.Continuous
			}
		}
	}
	for _, t := range m.Objective().Terms {
		hm.ColCosts[t.Var] += t.Coeff
	}

	for _, c := range m.Constraints() {
		cols := make([]int, len(c.Terms))
		vals := make([]float64, len(c.Terms))
		for i, t := range c.Terms {
			cols[i] = int(t.Var)
			vals[i] = t.Coeff
		}
		switch c.Op {
		case lpmodel.LessEq:
			hm.AddSparseRow(math.Inf(-1), cols, vals, c.RHS)
		case lpmodel.GreaterEq:
			hm.AddSparseRow(c.RHS, cols, vals, math.Inf(1))
		case lpmodel.Eq:
			hm.AddSparseRow(c.RHS, cols, vals, c.RHS)
		}
	}
	return hm
}

func status(sol *highs.Solution) lpmodel.TermStatus {
	switch {
	case sol.IsOptimal():
		return lpmodel.Optimal
	case sol.IsInfeasible():
		return lpmodel.Infeasible
	case sol.IsUnbounded():
		return lpmodel.Unbounded
	case sol.IsTimeLimit():
		if sol.HasSolution() {
			return lpmodel.Feasible
		}
		return lpmodel.TimeLimit
	case sol.HasSolution():
		return lpmodel.Feasible
	default:
		return lpmodel.NotSolved
	}
}
