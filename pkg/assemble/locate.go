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
package assemble

import (
	"os/exec"
	"path/filepath"
	"runtime"
)

// defaultBinaryNames is tried, in order, both on $PATH and under every
// wellKnownDirs entry.
var defaultBinaryNames = []string{"acme"}

// wellKnownDirs lists platform-specific install locations to fall back to
// when $PATH doesn't have the assembler.
func wellKnownDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin", "/Applications/acme/bin"}
	case "windows":
		return []string{`C:\Program Files\ACME`, `C:\acme`}
	default:
		return []string{"/usr/local/bin", "/usr/bin", "/opt/acme/bin"}
	}
}

// installHint suggests how to obtain the assembler, per platform.
func installHint() string {
	switch runtime.GOOS {
	case "darwin":
		return "install with 'brew install acme' or download from https://sourceforge.net/projects/acme-crossass/"
	case "windows":
		return "download the ACME cross-assembler from https://sourceforge.net/projects/acme-crossass/ and add it to PATH"
	default:
		return "install the 'acme' package from your distribution, or build it from https://sourceforge.net/projects/acme-crossass/"
	}
}

// Locate searches $PATH, then wellKnownDirs, for an assembler binary.
// override, when non-empty, is tried first and exclusively: Locate does not
// fall back to the search if an explicit path was given and doesn't exist,
// since that almost always indicates a configuration mistake the caller
// should see directly.
func Locate(override string) (string, error) {
	if override != "" {
		if path, err := exec.LookPath(override); err == nil {
			return path, nil
		}

		return "", &NotFoundError{Searched: []string{override}, Hint: installHint()}
	}

	var searched []string

	for _, name := range defaultBinaryNames {
		searched = append(searched, name)

		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	for _, dir := range wellKnownDirs() {
		for _, name := range defaultBinaryNames {
			candidate := filepath.Join(dir, name)
			searched = append(searched, candidate)

			if path, err := exec.LookPath(candidate); err == nil {
				return path, nil
			}
		}
	}

	return "", &NotFoundError{Searched: searched, Hint: installHint()}
}
