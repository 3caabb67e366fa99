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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExportLPFormat(t *testing.T) {
	mb := NewModelBuilder()
	x := mb.NewVar("x")
	y := mb.NewBoundedVar(1, 10, "y")
	z := mb.NewBoundedVar(2, math.Inf(1), "z")
	b := mb.NewBinaryVar("use", "A")

	mb.Minimize(NewLinearExpr().
		AddTerm(x, 2).
		AddTerm(y, 3).
		AddTerm(b, -1).
		AddConstant(0.5))
	mb.AddConstraint("cap", LessOrEqual(NewLinearExpr().AddSum(x, y), 10))
	mb.AddConstraint("min", GreaterOrEqual(NewLinearExpr().Add(x).AddTerm(z, -2), -1))

	m, err := mb.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	want := `Minimize
 obj: 2 x + 3 y - use[A] + 0.5
Subject To
 cap: x + y <= 10
 min: x - 2 z >= -1
Bounds
 1 <= y <= 10
 z >= 2
Binary
 use[A]
End
`
	if diff := cmp.Diff(want, m.ExportLPFormat()); diff != "" {
		t.Errorf("ExportLPFormat() returned unexpected diff (-want +got):\n%s", diff)
	}
}

func TestExportLPFormat_MaximizeNoBinaries(t *testing.T) {
	mb := NewModelBuilder()
	x := mb.NewVar("x")
	mb.Maximize(x)
	mb.AddConstraint("cap", LessOrEqual(x, 4))

	m, err := mb.Model()
	if err != nil {
		t.Fatalf("Model() returned with unexpected error %v", err)
	}

	want := `Maximize
 obj: x
Subject To
 cap: x <= 4
Bounds
End
`
	if diff := cmp.Diff(want, m.ExportLPFormat()); diff != "" {
		t.Errorf("ExportLPFormat() returned unexpected diff (-want +got):\n%s", diff)
	}
}
