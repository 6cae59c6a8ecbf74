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

// Package classify implements the pure compiler-argument classifier of
// spec.md §3/§4.1: it maps a raw compiler argv onto a CompilationIntent
// without performing any I/O.
package classify

// Mode is the overall action a compiler invocation performs.
type Mode int

const (
	// ModeCompileOnly is `-c`.
	ModeCompileOnly Mode = iota
	// ModeCompileAndLink builds and links in one invocation.
	ModeCompileAndLink
	// ModeLinkOnly links pre-built objects/archives.
	ModeLinkOnly
	// ModeAssemble is `-S`.
	ModeAssemble
	// ModePreprocessOnly is `-E`.
	ModePreprocessOnly
	// ModeDependencyOnly is a dependency-scan invocation (`-M` family
	// without a compile), kept distinct from ModePreprocessOnly for
	// callers that care, though both gate bitcode the same way.
	ModeDependencyOnly
	// ModePrintInfo is `--version`, `-print-*`, `-dumpmachine`, etc.
	ModePrintInfo
	// ModeConfigureProbe is a detected autoconf-style probe compile.
	ModeConfigureProbe
)

func (m Mode) String() string {
	switch m {
	case ModeCompileOnly:
		return "compile-only"
	case ModeCompileAndLink:
		return "compile-and-link"
	case ModeLinkOnly:
		return "link-only"
	case ModeAssemble:
		return "assemble"
	case ModePreprocessOnly:
		return "preprocess-only"
	case ModeDependencyOnly:
		return "dependency-only"
	case ModePrintInfo:
		return "print-info"
	case ModeConfigureProbe:
		return "configure-probe"
	default:
		return "unknown"
	}
}

// Language is the source language in effect for an input.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageC
	LanguageCXX
	LanguageAssembly
)

func (l Language) String() string {
	switch l {
	case LanguageC:
		return "c"
	case LanguageCXX:
		return "c++"
	case LanguageAssembly:
		return "assembly"
	default:
		return "unknown"
	}
}

// WrapperKind distinguishes the two wrapper entry points of spec.md §6.
type WrapperKind int

const (
	WrapperCC WrapperKind = iota
	WrapperCXX
)

// DefaultLanguage returns the language a wrapper assigns to its inputs
// until a -x flag names another one; a source file's extension decides its
// language only after "-x none" or an unrecognized -x language.
func (k WrapperKind) DefaultLanguage() Language {
	if k == WrapperCXX {
		return LanguageCXX
	}
	return LanguageC
}

// InputKind classifies one token of the input set.
type InputKind int

const (
	InputSource InputKind = iota
	InputObject
	InputArchive
	InputSharedObject
	InputOther
)

func (k InputKind) String() string {
	switch k {
	case InputSource:
		return "source"
	case InputObject:
		return "object"
	case InputArchive:
		return "archive"
	case InputSharedObject:
		return "shared-object"
	default:
		return "other"
	}
}

// Input is one non-flag argv token, tagged by kind and the language that
// was in effect (via -x or extension sniffing) when it was encountered.
type Input struct {
	Path     string
	Kind     InputKind
	Language Language
}

// CompilationIntent is the classifier's pure output: a structured
// description of what a raw compiler argv is asking for. See spec.md §3.
type CompilationIntent struct {
	Mode     Mode
	Language Language
	Inputs   []Input

	// Output is the explicit -o path, or "" if the wrapper must derive
	// the implicit per-input default.
	Output string

	CompilerFlags []string
	LinkFlags     []string
	BitcodeFlags  []string

	IsLTO                  bool
	IsEmitLLVM             bool
	IsPreprocessOrDepsOnly bool
	IsConfigureProbe       bool
}

// WantsBitcode reports whether this intent should trigger the parallel
// bitcode-emit pass (spec.md §4.2 step 4 "Gate"), independent of any
// config-level override (is_configure_only is applied by the caller).
func (ci CompilationIntent) WantsBitcode() bool {
	if ci.IsEmitLLVM {
		return false
	}
	switch ci.Mode {
	case ModePreprocessOnly, ModeDependencyOnly, ModePrintInfo, ModeConfigureProbe, ModeAssemble:
		return false
	}
	for _, in := range ci.Inputs {
		if in.Kind == InputSource {
			return true
		}
	}
	// compile-and-link/link-only with only objects still needs bitcode
	// attachment (carried through, not regenerated) at the link step.
	return ci.Mode == ModeCompileAndLink || ci.Mode == ModeLinkOnly
}

// Sources returns the source inputs, in argv order.
func (ci CompilationIntent) Sources() []Input {
	var out []Input
	for _, in := range ci.Inputs {
		if in.Kind == InputSource {
			out = append(out, in)
		}
	}
	return out
}

// Objects returns the object/archive/shared-object inputs, in argv order.
func (ci CompilationIntent) Objects() []Input {
	var out []Input
	for _, in := range ci.Inputs {
		if in.Kind == InputObject || in.Kind == InputArchive || in.Kind == InputSharedObject {
			out = append(out, in)
		}
	}
	return out
}
