// Copyright 2025 The Rivaas Authors
//
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

package engine

import "slices"

// Exclusion reasons reported in debug logs.
const (
	reasonGroups  = "groups"
	reasonVersion = "version"
	reasonDepth   = "depth"
	reasonNull    = "null"
)

// exclude reports whether f is left out of an operation driven by c, and
// why. depth is the level of the object holding f; the root object is at
// level 1.
func exclude(f *Field, c *Context, depth int) (string, bool) {
	if c.HasGroups() && !slices.ContainsFunc(f.Groups, func(g string) bool {
		return slices.Contains(c.groups, g)
	}) {
		return reasonGroups, true
	}

	if v, ok := c.Version(); ok {
		if f.Since != nil && v < *f.Since {
			return reasonVersion, true
		}
		if f.Until != nil && v > *f.Until {
			return reasonVersion, true
		}
	}

	if c.maxDepthChecks && f.MaxDepth > 0 && depth > f.MaxDepth {
		return reasonDepth, true
	}

	return "", false
}
