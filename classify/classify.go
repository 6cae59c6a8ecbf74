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

package classify

import (
	"path/filepath"
	"regexp"
	"strings"
)

// conftestPattern recognizes the autoconf-style probe source names
// (spec.md GLOSSARY "Configure probe").
var conftestPattern = regexp.MustCompile(`^conftest\.`)

// Options lets a caller supply the extra flags spec.md §4.1 appends last
// to bitcode_flags ("Flags the user marked with the bitcode_generation_flags
// config key are appended last").
type Options struct {
	BitcodeGenerationFlags []string
}

// Classify maps a raw compiler argv onto a CompilationIntent. It is pure:
// it performs no I/O and never consults the filesystem or environment.
// Response files must already be expanded by the caller (see Expand in
// responsefile.go) before Classify is called.
func Classify(argv []string, kind WrapperKind, opts Options) CompilationIntent {
	ci := CompilationIntent{
		Language: kind.DefaultLanguage(),
	}

	curLang := kind.DefaultLanguage()
	explicitLang := false // a -x flag named a recognized language
	var modePriority = -1 // higher wins; see modeRank below
	setMode := func(m Mode) {
		if r := modeRank(m); r > modePriority {
			ci.Mode = m
			modePriority = r
		}
	}
	// Default, lowest priority: resolved after the scan from the input set.
	sawOnlyObjects := false
	sawAnySource := false
	sawAnyObjectLike := false

	i := 0
	terminated := false
	for i < len(argv) {
		tok := argv[i]

		if !terminated && tok == "--" {
			terminated = true
			i++
			continue
		}

		if !terminated && tok == "-x" && i+1 < len(argv) {
			curLang = parseDashX(argv[i+1])
			explicitLang = curLang != LanguageUnknown
			ci.CompilerFlags = append(ci.CompilerFlags, tok, argv[i+1])
			i += 2
			continue
		}
		if !terminated && strings.HasPrefix(tok, "-x") && len(tok) > 2 {
			curLang = parseDashX(tok[2:])
			explicitLang = curLang != LanguageUnknown
			ci.CompilerFlags = append(ci.CompilerFlags, tok)
			i++
			continue
		}

		if !terminated && tok == "-o" && i+1 < len(argv) {
			ci.Output = argv[i+1]
			i += 2
			continue
		}
		if !terminated && strings.HasPrefix(tok, "-o") && len(tok) > 2 {
			ci.Output = tok[2:]
			i++
			continue
		}

		if !terminated && strings.HasPrefix(tok, "-") && tok != "-" {
			spec, matched, consumedNext := lookupFlag(tok, argv, i)
			if matched {
				if spec.forcesMode != noModeForce {
					setMode(Mode(spec.forcesMode))
				}
				switch spec.phase {
				case phaseLink:
					ci.LinkFlags = append(ci.LinkFlags, tok)
				case phaseCompile, phaseBoth, phaseNeither:
					ci.CompilerFlags = append(ci.CompilerFlags, tok)
				}
				if consumedNext {
					ci.CompilerFlags = append(ci.CompilerFlags, argv[i+1])
					i += 2
				} else {
					i++
				}
				if tok == "-flto" || strings.HasPrefix(tok, "-flto=") {
					ci.IsLTO = true
				}
				if tok == "-emit-llvm" {
					ci.IsEmitLLVM = true
				}
				continue
			}
			// Unknown flag: pass through as an opaque compiler flag
			// (spec.md §4.1: "unknown flags default to pass through").
			ci.CompilerFlags = append(ci.CompilerFlags, tok)
			i++
			continue
		}

		// A non-flag token is an input.
		in := classifyInput(tok, curLang, explicitLang)
		ci.Inputs = append(ci.Inputs, in)
		switch in.Kind {
		case InputSource:
			sawAnySource = true
		default:
			sawAnyObjectLike = true
		}
		i++
	}
	sawOnlyObjects = sawAnyObjectLike && !sawAnySource

	// Mode resolution (spec.md §4.1 "Mode resolution"), highest precedence
	// first, already applied via setMode during the scan. What remains is
	// the default when nothing forced a mode.
	if modePriority < 0 {
		switch {
		case sawAnySource:
			ci.Mode = ModeCompileAndLink
		case sawOnlyObjects:
			ci.Mode = ModeLinkOnly
		default:
			ci.Mode = ModePrintInfo
		}
	}

	ci.Language = curLang
	ci.IsPreprocessOrDepsOnly = ci.Mode == ModePreprocessOnly || ci.Mode == ModeDependencyOnly
	ci.IsConfigureProbe = isConfigureProbe(ci)
	if ci.IsConfigureProbe {
		ci.Mode = ModeConfigureProbe
	}

	ci.BitcodeFlags = filterBitcodeFlags(ci.CompilerFlags, opts.BitcodeGenerationFlags)

	return ci
}

// modeRank gives the classifier's mode-resolution precedence order
// (spec.md §4.1 "Mode resolution"), highest first: print-info, then
// preprocess/deps-only, then assemble, then compile-only. Configure-probe
// is handled separately (it is a property layered atop the resolved mode).
func modeRank(m Mode) int {
	switch m {
	case ModePrintInfo:
		return 4
	case ModePreprocessOnly, ModeDependencyOnly:
		return 3
	case ModeAssemble:
		return 2
	case ModeCompileOnly:
		return 1
	default:
		return 0
	}
}

// lookupFlag resolves tok against knownFlags and patternFlags, reporting
// whether the *next* argv token was consumed as a separate argument.
func lookupFlag(tok string, argv []string, i int) (flagSpec, bool, bool) {
	if spec, ok := knownFlags[tok]; ok {
		return spec, true, spec.arity == aritySeparate && i+1 < len(argv)
	}
	// Joined-form ("-Idir", "-Ldir", "-ldir") flags: try stripping a known
	// joined-arity prefix. Attached-form flags ("-std=c11") are matched by
	// patternFlags below.
	for name, spec := range knownFlags {
		if spec.arity == arityJoined && strings.HasPrefix(tok, name) && len(tok) > len(name) {
			return spec, true, false
		}
	}
	for _, pf := range patternFlags {
		if pf.pattern.MatchString(tok) {
			return flagSpec{name: tok, arity: arityAttached, phase: pf.phase, forcesMode: modeForceFor(tok), bitcodeSafe: pf.bitcodeSafe}, true, false
		}
	}
	return flagSpec{}, false, false
}

func modeForceFor(tok string) modeForce {
	if printInfoPattern.MatchString(tok) {
		return modeForce(ModePrintInfo)
	}
	return noModeForce
}

// parseDashX maps a `-x LANG` argument onto a Language; unrecognized or
// "none" values fall back to LanguageUnknown, which leaves subsequent
// inputs to be classified by extension instead.
func parseDashX(lang string) Language {
	switch lang {
	case "c", "c-header", "cpp-output":
		return LanguageC
	case "c++", "c++-header", "c++-cpp-output":
		return LanguageCXX
	case "assembler", "assembler-with-cpp":
		return LanguageAssembly
	default:
		return LanguageUnknown
	}
}

func classifyInput(path string, lang Language, explicitLang bool) Input {
	ext := filepath.Ext(path)
	if kind, ok := objectExtensions[ext]; ok {
		return Input{Path: path, Kind: kind, Language: lang}
	}
	if explicitLang {
		return Input{Path: path, Kind: InputSource, Language: lang}
	}
	if l, ok := sourceExtensions[ext]; ok {
		if lang == LanguageUnknown {
			lang = l
		}
		return Input{Path: path, Kind: InputSource, Language: lang}
	}
	return Input{Path: path, Kind: InputOther, Language: lang}
}

// isConfigureProbe implements the configure-probe heuristic named as an
// open question in spec.md §9. The predicate adopted here (documented in
// DESIGN.md): every source input's base name matches "conftest.*", OR the
// mode is print-info because of a "-print-*" flag and there are no inputs
// at all. "--version", "-dumpmachine" and "-dumpversion" alone stay
// print-info. It does not inspect the parent process name.
func isConfigureProbe(ci CompilationIntent) bool {
	sources := ci.Sources()
	if len(sources) > 0 {
		for _, s := range sources {
			if !conftestPattern.MatchString(filepath.Base(s.Path)) {
				return false
			}
		}
		return true
	}
	if ci.Mode == ModePrintInfo && len(ci.Inputs) == 0 {
		for _, f := range ci.CompilerFlags {
			if printInfoPattern.MatchString(f) {
				return true
			}
		}
	}
	return false
}

// filterBitcodeFlags derives bitcode_flags from compiler_flags (spec.md
// §4.1 "Bitcode-flag filtering"): strip flags meaningless or harmful to
// IR-only emission, then append the config's bitcode_generation_flags.
//
// The strip decision for each flag comes from its bitcodeSafe entry in
// flags.go's knownFlags/patternFlags table via lookupFlag — the same table
// classify's own scanner consults to build compilerFlags in the first
// place — so this filter can't silently drift from the table the way a
// second, hand-maintained strip list would.
func filterBitcodeFlags(compilerFlags []string, extra []string) []string {
	out := make([]string, 0, len(compilerFlags)+len(extra))
	i := 0
	for i < len(compilerFlags) {
		tok := compilerFlags[i]
		spec, matched, consumedNext := lookupFlag(tok, compilerFlags, i)
		if !matched {
			// Unmatched tokens default to pass-through, mirroring the
			// scanner's own "unknown flags default to pass through" rule.
			out = append(out, tok)
			i++
			continue
		}
		if spec.bitcodeSafe {
			out = append(out, tok)
			if consumedNext {
				out = append(out, compilerFlags[i+1])
			}
		}
		if consumedNext {
			i += 2
		} else {
			i++
		}
	}
	out = append(out, extra...)
	return out
}
