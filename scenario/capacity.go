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

// defaultLaborRatePerHour prices production labor when no rate is given.
const defaultLaborRatePerHour = 25

// ProductSpec is one product in a capacity planning run.
type ProductSpec struct {
	Name string `yaml:"name"`
	// SellingPrice in $/unit. Must be >= 0.1.
	SellingPrice float64 `yaml:"selling_price"`
	// MaterialCost in $/unit. Must be >= 0.1.
	MaterialCost float64 `yaml:"material_cost"`
	// LaborHoursPerUnit must be >= 0.01.
	LaborHoursPerUnit float64 `yaml:"labor_hours_per_unit"`
	// MaxDemandPerMonth caps monthly sales. Must be >= 100.
	MaxDemandPerMonth float64 `yaml:"max_demand_per_month"`
	// CycleTimeSec maps machine to seconds per part. A missing or zero entry
	// means the product consumes no time on that machine.
	CycleTimeSec map[string]float64 `yaml:"cycle_time_sec"`
}

// CapacityParams describes a capacity planning run: maximize profit over a
// monthly horizon given machine, labor, and demand constraints.
type CapacityParams struct {
	Products []ProductSpec `yaml:"products"`
	Machines []string      `yaml:"machines"`
	// Months is the planning horizon. Must be >= 1.
	Months int `yaml:"months"`
	// MachineCapacityHours is the monthly capacity per machine. Must be >= 10.
	MachineCapacityHours map[string]float64 `yaml:"machine_capacity_hours"`
	// LaborHoursPerMonth is the total labor pool per month. Must be >= 50.
	LaborHoursPerMonth float64 `yaml:"labor_hours_per_month"`
	// LaborRatePerHour prices labor in the objective. Zero means 25.
	LaborRatePerHour float64 `yaml:"labor_rate_per_hour"`
	// IncludeSalesSlack adds per-product-month slack variables absorbing unmet
	// demand, penalized at the selling price.
	IncludeSalesSlack bool `yaml:"include_sales_slack"`
}

// DefaultCapacityParams returns the stock two-product, two-machine data set.
func DefaultCapacityParams() CapacityParams {
	return CapacityParams{
		Products: []ProductSpec{
			{
				Name:              "PartX",
				SellingPrice:      5.0,
				MaterialCost:      2.0,
				LaborHoursPerUnit: 0.05,
				MaxDemandPerMonth: 2000,
				CycleTimeSec:      map[string]float64{"IMM_100T": 30, "IMM_200T": 28},
			},
			{
				Name:              "PartY",
				SellingPrice:      8.0,
				MaterialCost:      3.0,
				LaborHoursPerUnit: 0.05,
				MaxDemandPerMonth: 2000,
				CycleTimeSec:      map[string]float64{"IMM_200T": 40},
			},
		},
		Machines:             []string{"IMM_100T", "IMM_200T"},
		Months:               3,
		MachineCapacityHours: map[string]float64{"IMM_100T": 200, "IMM_200T": 150},
		LaborHoursPerMonth:   500,
		IncludeSalesSlack:    true,
	}
}

// Validate rejects out-of-range parameters before model construction.
func (p CapacityParams) Validate() error {
	if len(p.Products) == 0 {
		return invalidf("products must be non-empty")
	}
	names := make([]string, len(p.Products))
	for i, prod := range p.Products {
		names[i] = prod.Name
		if prod.SellingPrice < 0.1 {
			return invalidf("selling price of %q must be >= 0.1", prod.Name)
		}
		if prod.MaterialCost < 0.1 {
			return invalidf("material cost of %q must be >= 0.1", prod.Name)
		}
		if prod.LaborHoursPerUnit < 0.01 {
			return invalidf("labor hours per unit of %q must be >= 0.01", prod.Name)
		}
		if prod.MaxDemandPerMonth < 100 {
			return invalidf("max demand per month of %q must be >= 100", prod.Name)
		}
		for m, ct := range prod.CycleTimeSec {
			if ct < 0 {
				return invalidf("cycle time of %q on %q must be >= 0", prod.Name, m)
			}
		}
	}
	if !uniqueNonEmpty(names) {
		return invalidf("product names must be non-empty and unique")
	}
	if len(p.Machines) == 0 || !uniqueNonEmpty(p.Machines) {
		return invalidf("machines must be non-empty and unique")
	}
	if p.Months < 1 {
		return invalidf("months must be >= 1")
	}
	for _, m := range p.Machines {
		cap, ok := p.MachineCapacityHours[m]
		if !ok || cap < 10 {
			return invalidf("machine capacity for %q must be present and >= 10", m)
		}
	}
	if p.LaborHoursPerMonth < 50 {
		return invalidf("labor hours per month must be >= 50")
	}
	if p.LaborRatePerHour < 0 {
		return invalidf("labor rate per hour must be >= 0")
	}
	return nil
}

// Capacity is a built capacity planning model together with the variable
// references needed to extract a report.
type Capacity struct {
	params     CapacityParams
	laborRate  float64
	model      *lpmodel.Model
	production map[string]map[string][]lpmodel.Var // product -> machine -> month-1
	sales      map[string][]lpmodel.Var            // product -> month-1
	slack      map[string][]lpmodel.Var
}

// BuildCapacity validates the parameters and formulates the model.
func BuildCapacity(p CapacityParams) (*Capacity, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rate := p.LaborRatePerHour
	if rate == 0 {
		rate = defaultLaborRatePerHour
	}

	mb := lpmodel.NewModelBuilder()
	s := &Capacity{
		params:     p,
		laborRate:  rate,
		production: make(map[string]map[string][]lpmodel.Var),
		sales:      make(map[string][]lpmodel.Var),
		slack:      make(map[string][]lpmodel.Var),
	}
	for _, prod := range p.Products {
		s.production[prod.Name] = make(map[string][]lpmodel.Var)
		s.sales[prod.Name] = make([]lpmodel.Var, p.Months)
		if p.IncludeSalesSlack {
			s.slack[prod.Name] = make([]lpmodel.Var, p.Months)
		}
		for _, m := range p.Machines {
			s.production[prod.Name][m] = make([]lpmodel.Var, p.Months)
			for t := 1; t <= p.Months; t++ {
				s.production[prod.Name][m][t-1] = mb.NewVar("production", prod.Name, m, strconv.Itoa(t))
			}
		}
		for t := 1; t <= p.Months; t++ {
			s.sales[prod.Name][t-1] = mb.NewVar("sales", prod.Name, strconv.Itoa(t))
			if p.IncludeSalesSlack {
				s.slack[prod.Name][t-1] = mb.NewVar("slack", prod.Name, strconv.Itoa(t))
			}
		}
	}

	// Objective: revenue - material cost - labor cost - slack penalty.
	obj := lpmodel.NewLinearExpr()
	for _, prod := range p.Products {
		for t := 0; t < p.Months; t++ {
			obj.AddTerm(s.sales[prod.Name][t], prod.SellingPrice)
			if p.IncludeSalesSlack {
				obj.AddTerm(s.slack[prod.Name][t], -prod.SellingPrice)
			}
			for _, m := range p.Machines {
				obj.AddTerm(s.production[prod.Name][m][t], -prod.MaterialCost)
				obj.AddTerm(s.production[prod.Name][m][t], -prod.LaborHoursPerUnit*rate)
			}
		}
	}
	mb.Maximize(obj)

	for _, m := range p.Machines {
		for t := 1; t <= p.Months; t++ {
			e := lpmodel.NewLinearExpr()
			for _, prod := range p.Products {
				if ct := prod.CycleTimeSec[m]; ct > 0 {
					e.AddTerm(s.production[prod.Name][m][t-1], ct/3600)
				}
			}
			mb.AddConstraint(fmt.Sprintf("capacity[%s,%d]", m, t), lpmodel.LessOrEqual(e, p.MachineCapacityHours[m]))
		}
	}

	for t := 1; t <= p.Months; t++ {
		e := lpmodel.NewLinearExpr()
		for _, prod := range p.Products {
			for _, m := range p.Machines {
				e.AddTerm(s.production[prod.Name][m][t-1], prod.LaborHoursPerUnit)
			}
		}
		mb.AddConstraint(fmt.Sprintf("labor[%d]", t), lpmodel.LessOrEqual(e, p.LaborHoursPerMonth))
	}

	for _, prod := range p.Products {
		for t := 1; t <= p.Months; t++ {
			e := lpmodel.NewLinearExpr().Add(s.sales[prod.Name][t-1])
			if p.IncludeSalesSlack {
				e.Add(s.slack[prod.Name][t-1])
			}
			mb.AddConstraint(fmt.Sprintf("demand[%s,%d]", prod.Name, t), lpmodel.LessOrEqual(e, prod.MaxDemandPerMonth))

			link := lpmodel.NewLinearExpr().Add(s.sales[prod.Name][t-1])
			for _, m := range p.Machines {
				link.AddTerm(s.production[prod.Name][m][t-1], -1)
			}
			mb.AddConstraint(fmt.Sprintf("sales[%s,%d]", prod.Name, t), lpmodel.LessOrEqual(link, 0))
		}
	}

	model, err := mb.Model()
	if err != nil {
		return nil, err
	}
	s.model = model
	return s, nil
}

// Model returns the formulated model.
func (s *Capacity) Model() *lpmodel.Model { return s.model }

// SalesRow is the planned sales of one product in one month.
type SalesRow struct {
	Product string
	Sold    float64
	Unmet   float64
}

// MonthPlan is the ordered sales rows of one month.
type MonthPlan struct {
	Month int
	Rows  []SalesRow
}

// UtilizationRow is the machine time consumed in one month.
type UtilizationRow struct {
	Machine        string
	Month          int
	HoursUsed      float64
	HoursAvailable float64
}

// UnmetSales is the total demand slack of one product over the horizon.
type UnmetSales struct {
	Product string
	Units   float64
}

// CapacityReport is the extracted plan.
type CapacityReport struct {
	// Profit is the objective: revenue minus material, labor, and slack costs.
	Profit      float64
	Months      []MonthPlan
	Utilization []UtilizationRow
	Unmet       []UnmetSales
}

// Solve hands the model to the adapter and extracts the report.
func (s *Capacity) Solve(adapter lpmodel.Adapter, opts lpmodel.SolveOptions) (*CapacityReport, error) {
	sol, err := lpmodel.Solve(s.model, adapter, opts)
	if err != nil {
		return nil, err
	}
	return s.Report(sol), nil
}

// Report extracts the plan from a solution of this model.
func (s *Capacity) Report(sol *lpmodel.Solution) *CapacityReport {
	p := s.params
	r := &CapacityReport{Profit: sol.Objective()}
	for t := 1; t <= p.Months; t++ {
		plan := MonthPlan{Month: t}
		for _, prod := range p.Products {
			row := SalesRow{Product: prod.Name, Sold: sol.Value(s.sales[prod.Name][t-1])}
			if p.IncludeSalesSlack {
				row.Unmet = sol.Value(s.slack[prod.Name][t-1])
			}
			plan.Rows = append(plan.Rows, row)
		}
		r.Months = append(r.Months, plan)
	}
	for _, m := range p.Machines {
		for t := 1; t <= p.Months; t++ {
			used := 0.0
			for _, prod := range p.Products {
				used += sol.Value(s.production[prod.Name][m][t-1]) * prod.CycleTimeSec[m] / 3600
			}
			r.Utilization = append(r.Utilization, UtilizationRow{
				Machine:        m,
				Month:          t,
				HoursUsed:      used,
				HoursAvailable: p.MachineCapacityHours[m],
			})
		}
	}
	if p.IncludeSalesSlack {
		for _, prod := range p.Products {
			total := 0.0
			for t := 0; t < p.Months; t++ {
				total += sol.Value(s.slack[prod.Name][t])
			}
			if total > 0 {
				r.Unmet = append(r.Unmet, UnmetSales{Product: prod.Name, Units: total})
			}
		}
	}
	return r
}
