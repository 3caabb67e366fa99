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

// Package scenario formulates the four plant-optimization problems as
// lpmodel models: production scheduling, maintenance scheduling, material
// blending, and capacity planning.
//
// Each scenario is a pure transformation from a parameters struct to a model,
// plus an extraction step from the solution to report rows. Parameters are
// validated against their documented bounds before any model is built;
// out-of-range input is rejected with ErrInvalidParams. Building the same
// parameters twice yields structurally identical models.
package scenario

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by all parameter validation failures.
var ErrInvalidParams = errors.New("invalid scenario parameters")

func invalidf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, ErrInvalidParams)...)
}

// uniqueNonEmpty reports whether all names are non-empty and distinct.
func uniqueNonEmpty(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}
