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

// Package lpmodel offers a user-friendly API to build linear and mixed-integer
// models independently of the solver that executes them.
//
// The `Builder` struct accumulates decision variables, one objective, and a set
// of named constraints, and produces an immutable `Model`. The `Var` struct is
// a reference to a specific variable in the model and the `LinearExpr` struct
// provides helper methods for creating constraints and the objective from
// expressions with many variables and coefficients. Relations built with
// `LessOrEqual`, `GreaterOrEqual`, and `Equal` are values, not booleans, so
// scenario code reads as mathematical notation.
package lpmodel

import (
	"errors"
	"fmt"
	"math"
	"strings"

	log "github.com/golang/glog"
)

// Errors recorded by the Builder. Only the first error is reported by Model.
var (
	// ErrDuplicateVariable holds the error when a variable with the same name
	// and index tuple is declared twice in the same model.
	ErrDuplicateVariable = errors.New("variable already declared in this model")
	// ErrDuplicateConstraint holds the error when two constraints share a name.
	ErrDuplicateConstraint = errors.New("constraint name already used in this model")
	// ErrUnboundVariable holds the error when an expression references a
	// variable that was not declared by the model it is added to.
	ErrUnboundVariable = errors.New("expression references a variable not declared in this model")
)

type (
	// VarIndex is the index of a variable in the model.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

// VarDomain is the domain of a decision variable.
type VarDomain int

const (
	// Continuous variables take any value within their bounds.
	Continuous VarDomain = iota
	// Binary variables take the values 0 or 1.
	Binary
)

// String implements fmt.Stringer.
func (d VarDomain) String() string {
	switch d {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("unknown(%d)", int(d))
}

// LinearArgument provides an interface for Var and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c float64)
	evaluateSolutionValue(values []float64) float64
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    float64
}

type varCoeff struct {
	v     Var
	coeff float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term scaled by the given coefficient to the
// LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff float64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients
// to the LinearExpr and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c float64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{v: vc.v, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
}

func (l *LinearExpr) evaluateSolutionValue(values []float64) float64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += values[vc.v.ind] * vc.coeff
	}
	return result
}

// Var is a reference to a decision variable in the model.
type Var struct {
	ind VarIndex
	mb  *Builder
}

// Name returns the name of the variable, without its index tuple.
func (v Var) Name() string {
	return v.mb.vars[v.ind].Name
}

// Key returns the unique name+index key of the variable, e.g. "production[JobA,IMM_1]".
func (v Var) Key() string {
	return v.mb.vars[v.ind].Key()
}

// Index returns the index of the variable.
func (v Var) Index() VarIndex {
	return v.ind
}

// Domain returns the domain of the variable.
func (v Var) Domain() VarDomain {
	return v.mb.vars[v.ind].Domain
}

func (v Var) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{v: v, coeff: c})
}

func (v Var) evaluateSolutionValue(values []float64) float64 {
	return values[v.ind]
}

// RelOp is the relational operator of a constraint.
type RelOp int

const (
	// LessEq constrains an expression to be at most the right-hand side.
	LessEq RelOp = iota
	// GreaterEq constrains an expression to be at least the right-hand side.
	GreaterEq
	// Eq constrains an expression to equal the right-hand side.
	Eq
)

// String implements fmt.Stringer.
func (op RelOp) String() string {
	switch op {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Eq:
		return "="
	}
	return fmt.Sprintf("unknown(%d)", int(op))
}

// Relation pairs a linear expression with a relational operator and a
// right-hand-side constant. It is a value: comparing an expression with a
// constant produces a Relation, never a boolean.
type Relation struct {
	expr *LinearExpr
	op   RelOp
	rhs  float64
}

// LessOrEqual returns the relation `la <= rhs`.
func LessOrEqual(la LinearArgument, rhs float64) Relation {
	return Relation{expr: NewLinearExpr().Add(la), op: LessEq, rhs: rhs}
}

// GreaterOrEqual returns the relation `la >= rhs`.
func GreaterOrEqual(la LinearArgument, rhs float64) Relation {
	return Relation{expr: NewLinearExpr().Add(la), op: GreaterEq, rhs: rhs}
}

// Equal returns the relation `la == rhs`.
func Equal(la LinearArgument, rhs float64) Relation {
	return Relation{expr: NewLinearExpr().Add(la), op: Eq, rhs: rhs}
}

// Constraint is a reference to a constraint in the model.
type Constraint struct {
	ind ConstrIndex
	mb  *Builder
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.mb.constrs[c.ind].Name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// VarDef describes a declared decision variable.
type VarDef struct {
	Name         string
	IndexTuple   []string
	Domain       VarDomain
	Lower, Upper float64
}

// Key returns the unique name+index key of the variable.
func (vd VarDef) Key() string {
	if len(vd.IndexTuple) == 0 {
		return vd.Name
	}
	return vd.Name + "[" + strings.Join(vd.IndexTuple, ",") + "]"
}

// Term is one variable/coefficient entry of a normalized linear row.
type Term struct {
	Var   VarIndex
	Coeff float64
}

// ConstraintDef is a normalized constraint row: merged terms, one relational
// operator, and a right-hand side with the expression's constant folded in.
type ConstraintDef struct {
	Name  string
	Terms []Term
	Op    RelOp
	RHS   float64
}

// ObjectiveDef is the single objective of a model.
type ObjectiveDef struct {
	Terms    []Term
	Offset   float64
	Maximize bool
	IsSet    bool
}

// Model is an immutable formulated problem, ready to hand to a solver adapter.
type Model struct {
	vars      []VarDef
	constrs   []ConstraintDef
	objective ObjectiveDef
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int { return len(m.constrs) }

// Variables returns the declared variables in declaration order.
func (m *Model) Variables() []VarDef { return m.vars }

// Constraints returns the constraints in insertion order.
func (m *Model) Constraints() []ConstraintDef { return m.constrs }

// Objective returns the model objective.
func (m *Model) Objective() ObjectiveDef { return m.objective }

// Builder accumulates variables, constraints, and the objective of a model.
type Builder struct {
	vars        []VarDef
	varKeys     map[string]VarIndex
	constrs     []ConstraintDef
	constrNames map[string]ConstrIndex
	objective   ObjectiveDef
	// The first and only the first error is reported in Model.
	err error
}

// NewModelBuilder creates and returns a new model Builder.
func NewModelBuilder() *Builder {
	return &Builder{
		varKeys:     make(map[string]VarIndex),
		constrNames: make(map[string]ConstrIndex),
	}
}

func (mb *Builder) setErrorf(format string, a ...any) {
	err := fmt.Errorf(format, a...)
	log.Errorf("%v", err)
	if mb.err == nil {
		mb.err = err
	}
}

func (mb *Builder) newVar(def VarDef) Var {
	key := def.Key()
	if _, ok := mb.varKeys[key]; ok {
		mb.setErrorf("%q: %w", key, ErrDuplicateVariable)
	}
	ind := VarIndex(len(mb.vars))
	mb.vars = append(mb.vars, def)
	mb.varKeys[key] = ind
	return Var{ind: ind, mb: mb}
}

// NewVar creates a new continuous, non-negative variable identified by `name`
// and the index tuple.
func (mb *Builder) NewVar(name string, index ...string) Var {
	return mb.newVar(VarDef{Name: name, IndexTuple: index, Domain: Continuous, Lower: 0, Upper: math.Inf(1)})
}

// NewBoundedVar creates a new continuous variable with the bounds [lb, ub].
func (mb *Builder) NewBoundedVar(lb, ub float64, name string, index ...string) Var {
	return mb.newVar(VarDef{Name: name, IndexTuple: index, Domain: Continuous, Lower: lb, Upper: ub})
}

// NewBinaryVar creates a new variable with the domain {0, 1}.
func (mb *Builder) NewBinaryVar(name string, index ...string) Var {
	return mb.newVar(VarDef{Name: name, IndexTuple: index, Domain: Binary, Lower: 0, Upper: 1})
}

// normalizeTerms merges duplicate variables, keeping first-occurrence order,
// and verifies every variable belongs to this builder.
func (mb *Builder) normalizeTerms(context string, vcs []varCoeff) []Term {
	pos := make(map[VarIndex]int)
	var terms []Term
	for _, vc := range vcs {
		if vc.v.mb != mb {
			mb.setErrorf("%v references variable %q from another builder: %w", context, vc.v.Key(), ErrUnboundVariable)
			continue
		}
		if i, ok := pos[vc.v.ind]; ok {
			terms[i].Coeff += vc.coeff
			continue
		}
		pos[vc.v.ind] = len(terms)
		terms = append(terms, Term{Var: vc.v.ind, Coeff: vc.coeff})
	}
	return terms
}

// AddConstraint adds the named relation to the model. The constant term of the
// relation's expression is folded into the right-hand side.
func (mb *Builder) AddConstraint(name string, rel Relation) Constraint {
	if _, ok := mb.constrNames[name]; ok {
		mb.setErrorf("%q: %w", name, ErrDuplicateConstraint)
	}
	def := ConstraintDef{
		Name:  name,
		Terms: mb.normalizeTerms(fmt.Sprintf("constraint %q", name), rel.expr.varCoeffs),
		Op:    rel.op,
		RHS:   rel.rhs - rel.expr.offset,
	}
	ind := ConstrIndex(len(mb.constrs))
	mb.constrs = append(mb.constrs, def)
	mb.constrNames[name] = ind
	return Constraint{ind: ind, mb: mb}
}

// Minimize sets a linear minimization objective, replacing any prior objective.
func (mb *Builder) Minimize(obj LinearArgument) {
	mb.setObjective(obj, false)
}

// Maximize sets a linear maximization objective, replacing any prior objective.
func (mb *Builder) Maximize(obj LinearArgument) {
	mb.setObjective(obj, true)
}

func (mb *Builder) setObjective(obj LinearArgument, maximize bool) {
	o := NewLinearExpr().Add(obj)
	mb.objective = ObjectiveDef{
		Terms:    mb.normalizeTerms("objective", o.varCoeffs),
		Offset:   o.offset,
		Maximize: maximize,
		IsSet:    true,
	}
}

// Model returns the built model.
//
// Model returns an error when invalid declarations have been made during model
// building (e.g. duplicate variable keys, duplicate constraint names, or
// variables from other builders).
func (mb *Builder) Model() (*Model, error) {
	if mb.err != nil {
		return nil, mb.err
	}
	return &Model{vars: mb.vars, constrs: mb.constrs, objective: mb.objective}, nil
}

// Solve builds the model and hands it to the adapter. See Solve for the
// status-to-error mapping.
func (mb *Builder) Solve(adapter Adapter, opts SolveOptions) (*Solution, error) {
	m, err := mb.Model()
	if err != nil {
		return nil, err
	}
	return Solve(m, adapter, opts)
}
