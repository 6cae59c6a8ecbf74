// Copyright (C) 2026 The RLLVM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package classify_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/h1994st/rllvm/classify"
)

func TestClassifyCompileOnly(t *testing.T) {
	ci := classify.Classify([]string{"-c", "hello.c", "-o", "hello.o"}, classify.WrapperCC, classify.Options{})
	if ci.Mode != classify.ModeCompileOnly {
		t.Fatalf("got mode %v, want compile-only", ci.Mode)
	}
	if ci.Output != "hello.o" {
		t.Fatalf("got output %q", ci.Output)
	}
	if len(ci.Sources()) != 1 || ci.Sources()[0].Path != "hello.c" {
		t.Fatalf("got sources %v", ci.Sources())
	}
	if !ci.WantsBitcode() {
		t.Fatalf("expected WantsBitcode true")
	}
}

func TestClassifyCompileAndLink(t *testing.T) {
	ci := classify.Classify([]string{"a.c", "b.c", "-o", "prog"}, classify.WrapperCC, classify.Options{})
	if ci.Mode != classify.ModeCompileAndLink {
		t.Fatalf("got mode %v", ci.Mode)
	}
	if len(ci.Sources()) != 2 {
		t.Fatalf("got sources %v", ci.Sources())
	}
}

func TestClassifyLinkOnly(t *testing.T) {
	ci := classify.Classify([]string{"a.o", "b.o", "-o", "prog"}, classify.WrapperCC, classify.Options{})
	if ci.Mode != classify.ModeLinkOnly {
		t.Fatalf("got mode %v", ci.Mode)
	}
	if !ci.WantsBitcode() {
		t.Fatalf("link-only should still attach bitcode")
	}
}

func TestClassifyVersion(t *testing.T) {
	ci := classify.Classify([]string{"--version"}, classify.WrapperCC, classify.Options{})
	if ci.Mode != classify.ModePrintInfo {
		t.Fatalf("got mode %v", ci.Mode)
	}
	if ci.WantsBitcode() {
		t.Fatalf("print-info must not want bitcode")
	}
}

func TestClassifyPreprocessOnly(t *testing.T) {
	ci := classify.Classify([]string{"-E", "hello.c"}, classify.WrapperCC, classify.Options{})
	if ci.Mode != classify.ModePreprocessOnly {
		t.Fatalf("got mode %v", ci.Mode)
	}
	if ci.WantsBitcode() {
		t.Fatalf("-E must not want bitcode")
	}
}

func TestClassifyEmitLLVMSuppressesBitcodePass(t *testing.T) {
	ci := classify.Classify([]string{"-c", "-emit-llvm", "hello.c"}, classify.WrapperCC, classify.Options{})
	if !ci.IsEmitLLVM {
		t.Fatalf("expected IsEmitLLVM")
	}
	if ci.WantsBitcode() {
		t.Fatalf("explicit -emit-llvm must suppress the parallel bitcode pass")
	}
}

func TestClassifyConfigureProbe(t *testing.T) {
	ci := classify.Classify([]string{"-c", "conftest.c", "-o", "conftest.o"}, classify.WrapperCC, classify.Options{})
	if ci.Mode != classify.ModeConfigureProbe {
		t.Fatalf("got mode %v, want configure-probe", ci.Mode)
	}
	if ci.WantsBitcode() {
		t.Fatalf("configure probe must not want bitcode")
	}
}

func TestClassifyCXXDefaultLanguage(t *testing.T) {
	ci := classify.Classify([]string{"-c", "hello.cpp"}, classify.WrapperCXX, classify.Options{})
	if ci.Sources()[0].Language != classify.LanguageCXX {
		t.Fatalf("got language %v", ci.Sources()[0].Language)
	}
}

func TestClassifyDashXOverride(t *testing.T) {
	ci := classify.Classify([]string{"-x", "c++", "-c", "weird.txt"}, classify.WrapperCC, classify.Options{})
	if len(ci.Sources()) != 1 {
		t.Fatalf("expected weird.txt to be treated as a source after -x c++, got %v", ci.Inputs)
	}
	if ci.Sources()[0].Language != classify.LanguageCXX {
		t.Fatalf("got language %v", ci.Sources()[0].Language)
	}
}

func TestClassifyBitcodeFlagFiltering(t *testing.T) {
	ci := classify.Classify(
		[]string{"-c", "-O2", "-Wl,--as-needed", "-lm", "-shared", "hello.c", "-o", "hello.o"},
		classify.WrapperCC,
		classify.Options{BitcodeGenerationFlags: []string{"-g"}},
	)
	for _, f := range ci.BitcodeFlags {
		if f == "-c" || f == "-o" || f == "-shared" || f == "-lm" {
			t.Fatalf("bitcode flags should not contain %q: %v", f, ci.BitcodeFlags)
		}
	}
	found := false
	for _, f := range ci.BitcodeFlags {
		if f == "-g" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bitcode_generation_flags appended, got %v", ci.BitcodeFlags)
	}
}

func TestClassifyIsLTO(t *testing.T) {
	ci := classify.Classify([]string{"-flto", "-c", "hello.c"}, classify.WrapperCC, classify.Options{})
	if !ci.IsLTO {
		t.Fatalf("expected IsLTO true")
	}
	if !ci.WantsBitcode() {
		t.Fatalf("spec.md §9: LTO still runs the parallel bitcode pass")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	argv := []string{"-O2", "-Wall", "-c", "hello.c", "-o", "hello.o"}
	a := classify.Classify(argv, classify.WrapperCC, classify.Options{})
	b := classify.Classify(argv, classify.WrapperCC, classify.Options{})
	if a.Mode != b.Mode || a.Output != b.Output || len(a.CompilerFlags) != len(b.CompilerFlags) {
		t.Fatalf("classify is not deterministic: %+v vs %+v", a, b)
	}
}

func TestExpandResponseFile(t *testing.T) {
	dir := t.TempDir()
	rsp := filepath.Join(dir, "args.rsp")
	if err := os.WriteFile(rsp, []byte(`-c "hello world.c" -o out.o`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	argv, err := classify.Expand([]string{"@" + rsp})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	want := []string{"-c", "hello world.c", "-o", "out.o"}
	if len(argv) != len(want) {
		t.Fatalf("got %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Fatalf("got %v, want %v", argv, want)
		}
	}
}

func TestExpandDepthExceeded(t *testing.T) {
	dir := t.TempDir()
	path := func(n int) string { return filepath.Join(dir, "d"+string(rune('0'+n))+".rsp") }
	for n := 0; n <= classify.MaxResponseFileDepth+1; n++ {
		content := "-c"
		if n > 0 {
			content = "@" + path(n-1)
		}
		if err := os.WriteFile(path(n), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	_, err := classify.Expand([]string{"@" + path(classify.MaxResponseFileDepth+1)})
	if err == nil {
		t.Fatalf("expected depth-exceeded error")
	}
}
