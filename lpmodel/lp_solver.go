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

package lpmodel

import (
	"errors"
	"fmt"
	"time"
)

// Solve failures, mapped from the adapter's termination status. The status is
// propagated verbatim; no result is fabricated on failure.
var (
	// ErrInfeasible holds the error when the solver proves the model infeasible.
	ErrInfeasible = errors.New("model is infeasible")
	// ErrUnbounded holds the error when the solver proves the model unbounded.
	ErrUnbounded = errors.New("model is unbounded")
	// ErrTimeLimit holds the error when the solver stopped on its time limit.
	ErrTimeLimit = errors.New("solver reached its time limit")
	// ErrSolverFailure holds the error for any other non-optimal termination.
	ErrSolverFailure = errors.New("solver failed")
)

// TermStatus is the solver's verdict on a model.
type TermStatus int

const (
	// NotSolved means the solver terminated without a verdict.
	NotSolved TermStatus = iota
	// Optimal means the returned solution is proven optimal.
	Optimal
	// Feasible means the solver found a solution without proving optimality.
	Feasible
	// Infeasible means no assignment satisfies the constraints.
	Infeasible
	// Unbounded means the objective can be improved without limit.
	Unbounded
	// TimeLimit means the solve stopped when the time limit was reached.
	TimeLimit
)

// String implements fmt.Stringer.
func (s TermStatus) String() string {
	switch s {
	case NotSolved:
		return "not solved"
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case TimeLimit:
		return "time limit"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// SolveOptions configures a single solve call.
type SolveOptions struct {
	// TimeLimit bounds the solve duration. Zero means no limit; without it the
	// adapter call may block indefinitely.
	TimeLimit time.Duration
	// MIPRelGap is the relative optimality gap at which mixed-integer solves
	// may stop. Zero keeps the adapter's default.
	MIPRelGap float64
	// EnableOutput lets the underlying solver print its log.
	EnableOutput bool
}

// Result is the raw outcome reported by a solver adapter.
type Result struct {
	Status TermStatus
	// Values holds one value per declared variable when Status is Optimal or
	// Feasible, and is nil otherwise.
	Values []float64
	// ObjectiveValue is the solver-reported objective, valid when Values is set.
	ObjectiveValue float64
}

// Adapter is the external solver boundary. Implementations must honor variable
// domains and constraint operators exactly and report their termination status
// verbatim.
type Adapter interface {
	Solve(m *Model, opts SolveOptions) (*Result, error)
}

// Solution is an immutable variable assignment produced by a successful solve.
type Solution struct {
	status    TermStatus
	values    []float64
	objective float64
}

// Status returns the termination status, Optimal or Feasible.
func (s *Solution) Status() TermStatus { return s.status }

// Objective returns the solver-reported objective value.
func (s *Solution) Objective() float64 { return s.objective }

// Value returns the solved value of the variable.
func (s *Solution) Value(v Var) float64 {
	return s.values[v.ind]
}

// ExpressionValue evaluates the linear argument against the solution.
func (s *Solution) ExpressionValue(la LinearArgument) float64 {
	return la.evaluateSolutionValue(s.values)
}

// Solve delegates the model to the adapter and maps the termination status to
// a Solution or an error. This call blocks for the duration of the solve; the
// only bound is the optional time limit in `opts`.
func Solve(m *Model, adapter Adapter, opts SolveOptions) (*Solution, error) {
	res, err := adapter.Solve(m, opts)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSolverFailure)
	}
	switch res.Status {
	case Optimal, Feasible:
		if len(res.Values) != m.NumVars() {
			return nil, fmt.Errorf("adapter returned %d values for %d variables: %w", len(res.Values), m.NumVars(), ErrSolverFailure)
		}
		values := make([]float64, len(res.Values))
		copy(values, res.Values)
		return &Solution{status: res.Status, values: values, objective: res.ObjectiveValue}, nil
	case Infeasible:
		return nil, ErrInfeasible
	case Unbounded:
		return nil, ErrUnbounded
	case TimeLimit:
		return nil, ErrTimeLimit
	default:
		return nil, fmt.Errorf("termination status %v: %w", res.Status, ErrSolverFailure)
	}
}
