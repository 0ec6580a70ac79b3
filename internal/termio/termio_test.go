// Copyright The raster6502 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"testing"

	"github.com/raster6502/compiler/internal/assert"
)

// Test binaries don't run with stdout attached to a terminal, so Width must
// fall back to DefaultWidth rather than block or panic.
func TestWidthFallsBackWhenNotATerminal(t *testing.T) {
	assert.Equal(t, uint(DefaultWidth), Width())
}
