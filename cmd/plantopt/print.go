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

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"plantopt/scenario"
)

func printProduction(w io.Writer, r *scenario.ProductionReport) {
	fmt.Fprintf(w, "Objective (hours + penalty): %.2f\n\n", r.Objective)
	for _, m := range r.Machines {
		fmt.Fprintf(w, "%s\n", m.Machine)
		if len(m.Rows) == 0 {
			fmt.Fprintln(w, "  no jobs assigned")
			continue
		}
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, row := range m.Rows {
			fmt.Fprintf(tw, "  %s\t%.0f parts\t%.2f hrs\n", row.Job, row.Units, row.Hours)
		}
		tw.Flush()
	}
	if len(r.Unmet) > 0 {
		fmt.Fprintln(w, "\nUnmet demand:")
		for _, u := range r.Unmet {
			fmt.Fprintf(w, "  %s: %.0f units\n", u.Job, u.Units)
		}
	} else {
		fmt.Fprintln(w, "\nAll demand satisfied")
	}
}

func printMaintenance(w io.Writer, r *scenario.MaintenanceReport) {
	fmt.Fprintf(w, "Objective (cost): $%.2f\n\n", r.Objective)
	for _, m := range r.Machines {
		fmt.Fprintf(w, "%s\n", m.Machine)
		if len(m.Weeks) == 0 {
			fmt.Fprintln(w, "  no maintenance assigned")
			continue
		}
		for _, wk := range m.Weeks {
			fmt.Fprintf(w, "  week %d: %s\n", wk.Week, strings.Join(wk.Tasks, ", "))
		}
	}
	fmt.Fprintf(w, "\nPlanned %d minor and %d major PM tasks\n", r.TotalMinor, r.TotalMajor)
}

func printBlending(w io.Writer, r *scenario.BlendingReport) {
	for _, row := range r.Rows {
		fmt.Fprintf(w, "%s: %.1f%%\n", row.Material, row.Fraction*100)
	}
	fmt.Fprintf(w, "\nCost per kg of blend: $%.2f\n", r.CostPerKg)
}

func printCapacity(w io.Writer, r *scenario.CapacityReport) {
	fmt.Fprintf(w, "Profit: $%.2f\n", r.Profit)
	for _, month := range r.Months {
		fmt.Fprintf(w, "\nMonth %d\n", month.Month)
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for _, row := range month.Rows {
			fmt.Fprintf(tw, "  %s\t%.0f sold\t%.0f unmet\n", row.Product, row.Sold, row.Unmet)
		}
		tw.Flush()
	}
	fmt.Fprintln(w, "\nMachine utilization:")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, u := range r.Utilization {
		fmt.Fprintf(tw, "  %s\tmonth %d\t%.1f / %.0f hrs\n", u.Machine, u.Month, u.HoursUsed, u.HoursAvailable)
	}
	tw.Flush()
	if len(r.Unmet) > 0 {
		fmt.Fprintln(w, "\nUnmet demand:")
		for _, u := range r.Unmet {
			fmt.Fprintf(w, "  %s: %.0f units\n", u.Product, u.Units)
		}
	}
}
