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
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/raster6502/compiler/internal/assert"
)

// fakeAssembler writes a small shell script standing in for the real
// external assembler: it writes fixed bytes to the -o path (and, if given
// -l, a fixed label file), then exits with the given code. Skips on Windows,
// since the stub is a POSIX shell script.
func fakeAssembler(t *testing.T, exitCode int) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake assembler stub is a POSIX shell script")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fake-acme")

	script := "#!/bin/sh\n" +
		"out=\"\"\n" +
		"lbl=\"\"\n" +
		"while [ $# -gt 0 ]; do\n" +
		"  case \"$1\" in\n" +
		"    -o) out=\"$2\"; shift 2 ;;\n" +
		"    -l) lbl=\"$2\"; shift 2 ;;\n" +
		"    *) shift ;;\n" +
		"  esac\n" +
		"done\n" +
		"[ -n \"$out\" ] && printf '\\x01\\x08\\xA9\\x00\\x60' > \"$out\"\n" +
		"[ -n \"$lbl\" ] && printf 'al $0810 .main\\n' > \"$lbl\"\n" +
		"exit " + strconv.Itoa(exitCode) + "\n"

	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake assembler: %v", err)
	}

	return path
}

func TestRunReadsBackBinaryOnSuccess(t *testing.T) {
	bin := fakeAssembler(t, 0)

	result, err := Run("* = $0810\nLDA #$00\nRTS\n", Options{AssemblerPath: bin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, len(result.Binary) > 0)
}

func TestRunRequestsLabelFileWhenEnabled(t *testing.T) {
	bin := fakeAssembler(t, 0)

	result, err := Run("* = $0810\nRTS\n", Options{AssemblerPath: bin, LabelFile: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, len(result.Labels) > 0)
}

func TestRunNonZeroExitReturnsExitError(t *testing.T) {
	bin := fakeAssembler(t, 1)

	_, err := Run("garbage\n", Options{AssemblerPath: bin})
	if err == nil {
		t.Fatalf("expected an error")
	}

	exitErr, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("expected *ExitError, got %T", err)
	}

	assert.Equal(t, 1, exitErr.ExitCode)
}

func TestLocateMissingOverrideReturnsNotFoundError(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "definitely-not-an-assembler"))
	if err == nil {
		t.Fatalf("expected an error")
	}

	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
}

func TestRunAsyncDeliversExactlyOneResult(t *testing.T) {
	bin := fakeAssembler(t, 0)

	ch := RunAsync("* = $0810\nRTS\n", Options{AssemblerPath: bin})

	select {
	case r := <-ch:
		if r.Err != nil {
			t.Fatalf("unexpected error: %v", r.Err)
		}

		assert.True(t, len(r.Result.Binary) > 0)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for RunAsync")
	}
}
