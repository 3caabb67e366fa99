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
	"fmt"
	"strconv"

	"plantopt/lpmodel"
)

// MaintenanceParams describes a maintenance scheduling run: place minor and
// major preventive maintenance (PM) tasks over a weekly horizon, minimizing
// PM cost, downtime cost, and accumulated failure risk.
type MaintenanceParams struct {
	Machines []string `yaml:"machines"`
	// Weeks is the scheduling horizon. Must be in [4, 52].
	Weeks int `yaml:"weeks"`
	// MinorCost is the cost of one minor PM. Must be >= 100.
	MinorCost float64 `yaml:"minor_cost"`
	// MajorCost is the cost of one major PM. Must be >= 500.
	MajorCost float64 `yaml:"major_cost"`
	// DowntimeCostPerHour prices the hours a machine is down for PM. Must be >= 100.
	DowntimeCostPerHour float64 `yaml:"downtime_cost_per_hour"`
	// FailurePenalty is the expected weekly breakdown cost left unmaintained.
	// Must be >= 500 when IncludeFailureRisk is set.
	FailurePenalty float64 `yaml:"failure_penalty"`
	// MinorHours is the duration of a minor PM. Must be >= 1.
	MinorHours float64 `yaml:"minor_hours"`
	// MajorHours is the duration of a major PM. Must be >= 4.
	MajorHours float64 `yaml:"major_hours"`
	// LaborHours is the available maintenance labor per week, one entry per
	// week. Each must be >= 1.
	LaborHours []float64 `yaml:"labor_hours"`
	// IncludeFailureRisk adds the linearly increasing risk term
	// (1 - minor - major) * penalty * (week/weeks) for unmaintained weeks.
	IncludeFailureRisk bool `yaml:"include_failure_risk"`
}

// DefaultMaintenanceParams returns the stock three-machine, eight-week data set.
func DefaultMaintenanceParams() MaintenanceParams {
	p := MaintenanceParams{
		Machines:            []string{"IMM_1", "IMM_2", "IMM_3"},
		Weeks:               8,
		MinorCost:           500,
		MajorCost:           2000,
		DowntimeCostPerHour: 300,
		FailurePenalty:      3000,
		MinorHours:          2,
		MajorHours:          8,
		IncludeFailureRisk:  true,
	}
	p.LaborHours = make([]float64, p.Weeks)
	for w := range p.LaborHours {
		p.LaborHours[w] = 40
	}
	return p
}

// Validate rejects out-of-range parameters before model construction.
func (p MaintenanceParams) Validate() error {
	if len(p.Machines) == 0 || !uniqueNonEmpty(p.Machines) {
		return invalidf("machines must be non-empty and unique")
	}
	if p.Weeks < 4 || p.Weeks > 52 {
		return invalidf("weeks must be in [4, 52], got %d", p.Weeks)
	}
	if p.MinorCost < 100 {
		return invalidf("minor PM cost must be >= 100")
	}
	if p.MajorCost < 500 {
		return invalidf("major PM cost must be >= 500")
	}
	if p.DowntimeCostPerHour < 100 {
		return invalidf("downtime cost per hour must be >= 100")
	}
	if p.IncludeFailureRisk && p.FailurePenalty < 500 {
		return invalidf("failure penalty must be >= 500")
	}
	if p.MinorHours < 1 {
		return invalidf("minor PM duration must be >= 1 hour")
	}
	if p.MajorHours < 4 {
		return invalidf("major PM duration must be >= 4 hours")
	}
	if len(p.LaborHours) != p.Weeks {
		return invalidf("labor hours must have one entry per week: %d != %d", len(p.LaborHours), p.Weeks)
	}
	for w, h := range p.LaborHours {
		if h < 1 {
			return invalidf("labor hours for week %d must be >= 1", w+1)
		}
	}
	return nil
}

// Maintenance is a built maintenance scheduling model together with the
// variable references needed to extract a report.
type Maintenance struct {
	params MaintenanceParams
	model  *lpmodel.Model
	minor  map[string][]lpmodel.Var // per machine, indexed week-1
	major  map[string][]lpmodel.Var
}

// BuildMaintenance validates the parameters and formulates the model.
func BuildMaintenance(p MaintenanceParams) (*Maintenance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mb := lpmodel.NewModelBuilder()
	s := &Maintenance{
		params: p,
		minor:  make(map[string][]lpmodel.Var),
		major:  make(map[string][]lpmodel.Var),
	}
	for _, m := range p.Machines {
		s.minor[m] = make([]lpmodel.Var, p.Weeks)
		s.major[m] = make([]lpmodel.Var, p.Weeks)
		for w := 1; w <= p.Weeks; w++ {
			wk := strconv.Itoa(w)
			s.minor[m][w-1] = mb.NewBinaryVar("pm_minor", m, wk)
			s.major[m][w-1] = mb.NewBinaryVar("pm_major", m, wk)
		}
	}

	// Objective: PM cost + downtime cost + failure risk. The risk term can go
	// negative when both PMs land in the same week; the formulation does not
	// exclude that, matching the source.
	obj := lpmodel.NewLinearExpr()
	for _, m := range p.Machines {
		for w := 1; w <= p.Weeks; w++ {
			minor, major := s.minor[m][w-1], s.major[m][w-1]
			obj.AddTerm(minor, p.MinorCost)
			obj.AddTerm(major, p.MajorCost)
			obj.AddTerm(minor, p.MinorHours*p.DowntimeCostPerHour)
			obj.AddTerm(major, p.MajorHours*p.DowntimeCostPerHour)
			if p.IncludeFailureRisk {
				risk := p.FailurePenalty * float64(w) / float64(p.Weeks)
				obj.AddConstant(risk)
				obj.AddTerm(minor, -risk)
				obj.AddTerm(major, -risk)
			}
		}
	}
	mb.Minimize(obj)

	for w := 1; w <= p.Weeks; w++ {
		e := lpmodel.NewLinearExpr()
		for _, m := range p.Machines {
			e.AddTerm(s.minor[m][w-1], p.MinorHours)
			e.AddTerm(s.major[m][w-1], p.MajorHours)
		}
		mb.AddConstraint(fmt.Sprintf("labor[%d]", w), lpmodel.LessOrEqual(e, p.LaborHours[w-1]))
	}

	model, err := mb.Model()
	if err != nil {
		return nil, err
	}
	s.model = model
	return s, nil
}

// Model returns the formulated model.
func (s *Maintenance) Model() *lpmodel.Model { return s.model }

// WeekTasks is the PM work scheduled on one machine in one week.
type WeekTasks struct {
	Week  int
	Tasks []string
}

// MachinePlan is the ordered weekly schedule of one machine. Weeks without
// tasks are omitted.
type MachinePlan struct {
	Machine string
	Weeks   []WeekTasks
}

// MaintenanceReport is the extracted schedule.
type MaintenanceReport struct {
	Objective  float64
	Machines   []MachinePlan
	TotalMinor int
	TotalMajor int
}

// Solve hands the model to the adapter and extracts the report.
func (s *Maintenance) Solve(adapter lpmodel.Adapter, opts lpmodel.SolveOptions) (*MaintenanceReport, error) {
	sol, err := lpmodel.Solve(s.model, adapter, opts)
	if err != nil {
		return nil, err
	}
	return s.Report(sol), nil
}

// Report extracts the schedule from a solution of this model.
func (s *Maintenance) Report(sol *lpmodel.Solution) *MaintenanceReport {
	r := &MaintenanceReport{Objective: sol.Objective()}
	for _, m := range s.params.Machines {
		plan := MachinePlan{Machine: m}
		for w := 1; w <= s.params.Weeks; w++ {
			var tasks []string
			if sol.Value(s.minor[m][w-1]) > 0.5 {
				tasks = append(tasks, "Minor PM")
				r.TotalMinor++
			}
			if sol.Value(s.major[m][w-1]) > 0.5 {
				tasks = append(tasks, "Major PM")
				r.TotalMajor++
			}
			if len(tasks) > 0 {
				plan.Weeks = append(plan.Weeks, WeekTasks{Week: w, Tasks: tasks})
			}
		}
		r.Machines = append(r.Machines, plan)
	}
	return r
}
