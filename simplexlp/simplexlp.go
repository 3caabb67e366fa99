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

// Package simplexlp adapts gonum's simplex method to the lpmodel.Adapter
// interface. It solves continuous models only; mixed-integer models belong to
// the highslp adapter.
package simplexlp

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"plantopt/lpmodel"
)

// ErrIntegerModel is returned for models with binary variables.
var ErrIntegerModel = errors.New("simplexlp: model has binary variables, use a mixed-integer adapter")

// ErrFreeVariable is returned for variables without a finite lower bound,
// which the standard-form conversion does not handle.
var ErrFreeVariable = errors.New("simplexlp: model has a variable without a finite lower bound")

// Adapter solves continuous models with gonum's two-phase simplex.
type Adapter struct{}

// New returns a simplex-backed adapter.
func New() *Adapter {
	return &Adapter{}
}

// Solve implements lpmodel.Adapter. The time limit in `opts` is ignored: the
// simplex call runs to termination.
func (a *Adapter) Solve(m *lpmodel.Model, opts lpmodel.SolveOptions) (*lpmodel.Result, error) {
	vars := m.Variables()
	for _, vd := range vars {
		if vd.Domain != lpmodel.Continuous {
			return nil, ErrIntegerModel
		}
		if math.IsInf(vd.Lower, -1) {
			return nil, ErrFreeVariable
		}
	}

	// Standard form works on shifted variables y = x - lower, y >= 0. Finite
	// upper bounds become extra rows, inequality rows gain a slack column.
	type row struct {
		coeffs map[int]float64
		op     lpmodel.RelOp
		rhs    float64
	}
	var rows []row
	for _, c := range m.Constraints() {
		r := row{coeffs: make(map[int]float64), op: c.Op, rhs: c.RHS}
		for _, t := range c.Terms {
			r.coeffs[int(t.Var)] += t.Coeff
			r.rhs -= t.Coeff * vars[t.Var].Lower
		}
		rows = append(rows, r)
	}
	for i, vd := range vars {
		if !math.IsInf(vd.Upper, 1) {
			rows = append(rows, row{coeffs: map[int]float64{i: 1}, op: lpmodel.LessEq, rhs: vd.Upper - vd.Lower})
		}
	}

	obj := m.Objective()
	costs := make([]float64, len(vars))
	for _, t := range obj.Terms {
		costs[t.Var] += t.Coeff
	}

	if len(rows) == 0 {
		return solveUnconstrained(m, costs)
	}

	nSlack := 0
	for _, r := range rows {
		if r.op != lpmodel.Eq {
			nSlack++
		}
	}
	nCols := len(vars) + nSlack

	c := make([]float64, nCols)
	for i, cost := range costs {
		c[i] = cost
		if obj.Maximize {
			c[i] = -cost
		}
	}
	A := mat.NewDense(len(rows), nCols, nil)
	b := make([]float64, len(rows))
	slack := len(vars)
	for i, r := range rows {
		for j, v := range r.coeffs {
			A.Set(i, j, v)
		}
		b[i] = r.rhs
		switch r.op {
		case lpmodel.LessEq:
			A.Set(i, slack, 1)
			slack++
		case lpmodel.GreaterEq:
			A.Set(i, slack, -1)
			slack++
		}
	}

	_, x, err := lp.Simplex(c, A, b, 0, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &lpmodel.Result{Status: lpmodel.Infeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return &lpmodel.Result{Status: lpmodel.Unbounded}, nil
	case err != nil:
		return nil, err
	}

	values := make([]float64, len(vars))
	for i, vd := range vars {
		values[i] = x[i] + vd.Lower
	}
	return &lpmodel.Result{
		Status:         lpmodel.Optimal,
		Values:         values,
		ObjectiveValue: evaluate(obj, values),
	}, nil
}

// solveUnconstrained handles the degenerate model with no rows: each variable
// sits at whichever bound its cost prefers.
func solveUnconstrained(m *lpmodel.Model, costs []float64) (*lpmodel.Result, error) {
	obj := m.Objective()
	vars := m.Variables()
	values := make([]float64, len(vars))
	for i, vd := range vars {
		improving := costs[i] < 0
		if obj.Maximize {
			improving = costs[i] > 0
		}
		if !improving {
			values[i] = vd.Lower
			continue
		}
		if math.IsInf(vd.Upper, 1) {
			return &lpmodel.Result{Status: lpmodel.Unbounded}, nil
		}
		values[i] = vd.Upper
	}
	return &lpmodel.Result{
		Status:         lpmodel.Optimal,
		Values:         values,
		ObjectiveValue: evaluate(obj, values),
	}, nil
}

func evaluate(obj lpmodel.ObjectiveDef, values []float64) float64 {
	result := obj.Offset
	for _, t := range obj.Terms {
		result += t.Coeff * values[t.Var]
	}
	return result
}
