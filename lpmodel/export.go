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
	"fmt"
	"io"
	"math"
	"strings"
)

// ExportLPFormat renders the model in CPLEX LP text format, for inspection and
// for feeding stand-alone solver binaries.
func (m *Model) ExportLPFormat() string {
	var sb strings.Builder
	// Writes to a strings.Builder cannot fail.
	_ = m.WriteLP(&sb)
	return sb.String()
}

// WriteLP writes the model in CPLEX LP text format to `w`.
func (m *Model) WriteLP(w io.Writer) error {
	sense := "Minimize"
	if m.objective.Maximize {
		sense = "Maximize"
	}
	if _, err := fmt.Fprintf(w, "%s\n obj:%s\n", sense, formatTerms(m, m.objective.Terms, m.objective.Offset)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Subject To\n"); err != nil {
		return err
	}
	for _, c := range m.constrs {
		if _, err := fmt.Fprintf(w, " %s:%s %s %s\n", c.Name, formatTerms(m, c.Terms, 0), c.Op, formatNum(c.RHS)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "Bounds\n"); err != nil {
		return err
	}
	var binaries []string
	for _, vd := range m.vars {
		if vd.Domain == Binary {
			binaries = append(binaries, vd.Key())
			continue
		}
		switch {
		case math.IsInf(vd.Upper, 1) && vd.Lower == 0:
			// The LP-format default; nothing to emit.
		case math.IsInf(vd.Upper, 1):
			if _, err := fmt.Fprintf(w, " %s >= %s\n", vd.Key(), formatNum(vd.Lower)); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, " %s <= %s <= %s\n", formatNum(vd.Lower), vd.Key(), formatNum(vd.Upper)); err != nil {
				return err
			}
		}
	}
	if len(binaries) > 0 {
		if _, err := fmt.Fprintf(w, "Binary\n %s\n", strings.Join(binaries, " ")); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "End\n")
	return err
}

func formatTerms(m *Model, terms []Term, offset float64) string {
	var sb strings.Builder
	for _, t := range terms {
		coeff := t.Coeff
		if sb.Len() == 0 {
			if coeff < 0 {
				sb.WriteString(" -")
				coeff = -coeff
			} else {
				sb.WriteString(" ")
			}
		} else if coeff < 0 {
			sb.WriteString(" - ")
			coeff = -coeff
		} else {
			sb.WriteString(" + ")
		}
		if coeff != 1 {
			sb.WriteString(formatNum(coeff))
			sb.WriteString(" ")
		}
		sb.WriteString(m.vars[t.Var].Key())
	}
	if offset != 0 || len(terms) == 0 {
		if offset >= 0 {
			sb.WriteString(" + ")
			sb.WriteString(formatNum(offset))
		} else {
			sb.WriteString(" - ")
			sb.WriteString(formatNum(-offset))
		}
	}
	return sb.String()
}

func formatNum(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", f), "0"), ".")
}
