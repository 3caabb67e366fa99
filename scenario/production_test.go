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

	"github.com/google/go-cmp/cmp"

	"plantopt/lpmodel"
)

func TestProductionParams_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *ProductionParams)
	}{
		{
			name:   "NoJobs",
			mutate: func(p *ProductionParams) { p.Jobs = nil },
		},
		{
			name:   "DuplicateJobs",
			mutate: func(p *ProductionParams) { p.Jobs = []string{"JobA", "JobA"} },
		},
		{
			name:   "DuplicateMachines",
			mutate: func(p *ProductionParams) { p.Machines = []string{"IMM_1", "IMM_1"} },
		},
		{
			name:   "NegativeDemand",
			mutate: func(p *ProductionParams) { p.Demand["JobA"] = -1 },
		},
		{
			name:   "MissingDemand",
			mutate: func(p *ProductionParams) { delete(p.Demand, "JobB") },
		},
		{
			name:   "CycleTimeTooSmall",
			mutate: func(p *ProductionParams) { p.CycleTimeSec["JobA"]["IMM_1"] = 0.5 },
		},
		{
			name:   "MissingCycleTime",
			mutate: func(p *ProductionParams) { delete(p.CycleTimeSec["JobC"], "IMM_2") },
		},
		{
			name:   "ChangeoverTooSmall",
			mutate: func(p *ProductionParams) { p.ChangeoverMinutes = 0 },
		},
		{
			name:   "HoursTooSmall",
			mutate: func(p *ProductionParams) { p.AvailableHours["IMM_3"] = 0.5 },
		},
		{
			name:   "NegativeChangeoverWeight",
			mutate: func(p *ProductionParams) { p.ChangeoverWeight = -1 },
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			p := DefaultProductionParams()
			test.mutate(&p)
			if _, err := BuildProduction(p); !errors.Is(err, ErrInvalidParams) {
				t.Errorf("BuildProduction() returned %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestBuildProduction_Structure(t *testing.T) {
	p := DefaultProductionParams()
	s, err := BuildProduction(p)
	if err != nil {
		t.Fatalf("BuildProduction() returned with unexpected error %v", err)
	}
	m := s.Model()

	// 4 jobs x 3 machines x (production + assignment), plus one slack per job.
	if got, want := m.NumVars(), 4*3*2+4; got != want {
		t.Errorf("NumVars() = %d, want %d", got, want)
	}
	// One demand row per job, one capacity row per machine, one link per pair.
	if got, want := m.NumConstraints(), 4+3+4*3; got != want {
		t.Errorf("NumConstraints() = %d, want %d", got, want)
	}
	if m.Objective().Maximize {
		t.Error("Objective().Maximize = true, want minimization")
	}

	prodA1 := varIndexByKey(t, m, "production[JobA,IMM_1]")
	assignA1 := varIndexByKey(t, m, "assignment[JobA,IMM_1]")
	slackA := varIndexByKey(t, m, "slack[JobA]")

	obj := m.Objective()
	// Production is priced at cycle seconds over 3600, changeover at minutes
	// over 60, slack at the fixed penalty.
	if got := termCoeff(obj.Terms, prodA1); !approxEqual(got, 25.0/3600) {
		t.Errorf("objective coefficient of production[JobA,IMM_1] = %v, want %v", got, 25.0/3600)
	}
	if got := termCoeff(obj.Terms, assignA1); !approxEqual(got, 1) {
		t.Errorf("objective coefficient of assignment[JobA,IMM_1] = %v, want 1", got)
	}
	if got := termCoeff(obj.Terms, slackA); !approxEqual(got, 10) {
		t.Errorf("objective coefficient of slack[JobA] = %v, want 10", got)
	}

	demand := constraintByName(t, m, "demand[JobA]")
	if demand.Op != lpmodel.GreaterEq || !approxEqual(demand.RHS, 5000) {
		t.Errorf("demand[JobA] is %v %v, want >= 5000", demand.Op, demand.RHS)
	}
	if got := termCoeff(demand.Terms, slackA); !approxEqual(got, 1) {
		t.Errorf("demand[JobA] coefficient of slack[JobA] = %v, want 1", got)
	}

	capacity := constraintByName(t, m, "capacity[IMM_1]")
	if capacity.Op != lpmodel.LessEq || !approxEqual(capacity.RHS, 20) {
		t.Errorf("capacity[IMM_1] is %v %v, want <= 20", capacity.Op, capacity.RHS)
	}
	if got := termCoeff(capacity.Terms, assignA1); !approxEqual(got, 1) {
		t.Errorf("capacity[IMM_1] coefficient of assignment[JobA,IMM_1] = %v, want 1", got)
	}

	link := constraintByName(t, m, "link[JobA,IMM_1]")
	if link.Op != lpmodel.LessEq || !approxEqual(link.RHS, 0) {
		t.Errorf("link[JobA,IMM_1] is %v %v, want <= 0", link.Op, link.RHS)
	}
	if got := termCoeff(link.Terms, assignA1); !approxEqual(got, -5000) {
		t.Errorf("link[JobA,IMM_1] coefficient of assignment[JobA,IMM_1] = %v, want -5000", got)
	}
}

func TestBuildProduction_ChangeoverWeight(t *testing.T) {
	p := DefaultProductionParams()
	p.ChangeoverWeight = 2
	s, err := BuildProduction(p)
	if err != nil {
		t.Fatalf("BuildProduction() returned with unexpected error %v", err)
	}
	m := s.Model()

	assignA1 := varIndexByKey(t, m, "assignment[JobA,IMM_1]")
	// The weight scales the objective's changeover term only; the capacity row
	// still charges the physical changeover time.
	if got := termCoeff(m.Objective().Terms, assignA1); !approxEqual(got, 2) {
		t.Errorf("objective coefficient of assignment[JobA,IMM_1] = %v, want 2", got)
	}
	capacity := constraintByName(t, m, "capacity[IMM_1]")
	if got := termCoeff(capacity.Terms, assignA1); !approxEqual(got, 1) {
		t.Errorf("capacity[IMM_1] coefficient of assignment[JobA,IMM_1] = %v, want 1", got)
	}
}

func TestBuildProduction_WithoutSlack(t *testing.T) {
	p := DefaultProductionParams()
	p.IncludeSlackPenalty = false
	s, err := BuildProduction(p)
	if err != nil {
		t.Fatalf("BuildProduction() returned with unexpected error %v", err)
	}
	m := s.Model()

	if got, want := m.NumVars(), 4*3*2; got != want {
		t.Errorf("NumVars() = %d, want %d", got, want)
	}
	for _, vd := range m.Variables() {
		if vd.Name == "slack" {
			t.Errorf("found %s, want no slack variables", vd.Key())
		}
	}
}

func TestBuildProduction_Idempotence(t *testing.T) {
	build := func() *lpmodel.Model {
		s, err := BuildProduction(DefaultProductionParams())
		if err != nil {
			t.Fatalf("BuildProduction() returned with unexpected error %v", err)
		}
		return s.Model()
	}

	m1, m2 := build(), build()
	if diff := cmp.Diff(m1.Variables(), m2.Variables()); diff != "" {
		t.Errorf("Variables() differ across identical builds:\n%s", diff)
	}
	if diff := cmp.Diff(m1.Constraints(), m2.Constraints()); diff != "" {
		t.Errorf("Constraints() differ across identical builds:\n%s", diff)
	}
	if diff := cmp.Diff(m1.Objective(), m2.Objective()); diff != "" {
		t.Errorf("Objective() differs across identical builds:\n%s", diff)
	}
}
