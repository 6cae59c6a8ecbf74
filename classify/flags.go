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

import "regexp"

// arity describes how a flag consumes its argument, per spec.md §4.1.
type arity int

const (
	// arityNone: the flag takes no argument ("-c").
	arityNone arity = iota
	// arityAttached: the argument is joined with '=' ("-std=c11").
	arityAttached
	// aritySeparate: the argument is the next argv token ("-o", "out").
	aritySeparate
	// arityJoined: the argument is glued directly onto the flag ("-Idir").
	arityJoined
)

// phase records which compile phase(s) a flag's output applies to.
type phase int

const (
	phaseNeither phase = iota
	phaseCompile
	phaseLink
	phaseBoth
)

// modeForce names a Mode that a flag unconditionally selects, or -1 for
// flags that don't force a mode.
type modeForce int

const noModeForce modeForce = -1

// flagSpec is one row of the classifier's flag table (spec.md §9: "a
// first-class data table ... separated from a driver").
type flagSpec struct {
	name        string
	arity       arity
	phase       phase
	forcesMode  modeForce
	bitcodeSafe bool // false: strip from bitcode_flags (spec.md §4.1 bitcode-flag filtering)
}

// knownFlags is keyed by exact flag name for O(1) lookup of non-pattern
// flags. Flags that also force a mode (-c, -S, -E, ...) are listed here.
var knownFlags = map[string]flagSpec{
	"-c": {name: "-c", arity: arityNone, phase: phaseCompile, forcesMode: modeForce(ModeCompileOnly), bitcodeSafe: false},
	"-S": {name: "-S", arity: arityNone, phase: phaseCompile, forcesMode: modeForce(ModeAssemble), bitcodeSafe: false},
	"-E": {name: "-E", arity: arityNone, phase: phaseCompile, forcesMode: modeForce(ModePreprocessOnly), bitcodeSafe: false},
	"-M": {name: "-M", arity: arityNone, phase: phaseCompile, forcesMode: modeForce(ModeDependencyOnly), bitcodeSafe: false},
	"-MM": {name: "-MM", arity: arityNone, phase: phaseCompile, forcesMode: modeForce(ModeDependencyOnly), bitcodeSafe: false},
	"-MG": {name: "-MG", arity: arityNone, phase: phaseCompile, forcesMode: modeForce(ModeDependencyOnly), bitcodeSafe: true},
	"-MP": {name: "-MP", arity: arityNone, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-MD":  {name: "-MD", arity: arityNone, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-MMD": {name: "-MMD", arity: arityNone, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-MF":  {name: "-MF", arity: aritySeparate, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-MT":  {name: "-MT", arity: aritySeparate, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-MQ":  {name: "-MQ", arity: aritySeparate, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},

	"--version":   {name: "--version", arity: arityNone, phase: phaseNeither, forcesMode: modeForce(ModePrintInfo), bitcodeSafe: true},
	"-v":          {name: "-v", arity: arityNone, phase: phaseBoth, forcesMode: noModeForce, bitcodeSafe: true},
	"-dumpmachine": {name: "-dumpmachine", arity: arityNone, phase: phaseNeither, forcesMode: modeForce(ModePrintInfo), bitcodeSafe: true},
	"-dumpversion": {name: "-dumpversion", arity: arityNone, phase: phaseNeither, forcesMode: modeForce(ModePrintInfo), bitcodeSafe: true},

	"-emit-llvm": {name: "-emit-llvm", arity: arityNone, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},

	"-shared":   {name: "-shared", arity: arityNone, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: false},
	"-static":   {name: "-static", arity: arityNone, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: false},
	"-pie":      {name: "-pie", arity: arityNone, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: false},
	"-rdynamic": {name: "-rdynamic", arity: arityNone, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: false},
	"-nostdlib": {name: "-nostdlib", arity: arityNone, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: true},

	"-o": {name: "-o", arity: aritySeparate, phase: phaseBoth, forcesMode: noModeForce, bitcodeSafe: false},
	"-I": {name: "-I", arity: arityJoined, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-D": {name: "-D", arity: arityJoined, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-U": {name: "-U", arity: arityJoined, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
	"-L": {name: "-L", arity: arityJoined, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: false},
	"-l": {name: "-l", arity: arityJoined, phase: phaseLink, forcesMode: noModeForce, bitcodeSafe: false},

	"-x": {name: "-x", arity: aritySeparate, phase: phaseCompile, forcesMode: noModeForce, bitcodeSafe: true},
}

// patternFlags matches "flag families" by regex (spec.md §4.1: "-Wl,*",
// "-Wa,*", "-fsanitize=*", "-march=*"). Order matters: first match wins.
var patternFlags = []struct {
	pattern     *regexp.Regexp
	phase       phase
	bitcodeSafe bool
}{
	{regexp.MustCompile(`^-Wl,`), phaseLink, false},
	{regexp.MustCompile(`^-Wa,`), phaseCompile, false},
	{regexp.MustCompile(`^-print-`), phaseNeither, true},
	{regexp.MustCompile(`^-fsanitize=`), phaseBoth, true},
	{regexp.MustCompile(`^-march=`), phaseBoth, true},
	{regexp.MustCompile(`^-mtune=`), phaseBoth, true},
	{regexp.MustCompile(`^-std=`), phaseCompile, true},
	{regexp.MustCompile(`^-flto`), phaseBoth, true},
	{regexp.MustCompile(`^-W[a-zA-Z-]*$`), phaseCompile, true},
	{regexp.MustCompile(`^-f[a-zA-Z-]+$`), phaseCompile, true},
}

// printInfoPattern additionally recognizes any "-print-..." flag as a
// mode-forcing print request, even though it's also in patternFlags for
// bitcode-flag filtering purposes.
var printInfoPattern = regexp.MustCompile(`^-print-`)

// sourceExtensions maps a file extension to the language it implies.
var sourceExtensions = map[string]Language{
	".c":   LanguageC,
	".i":   LanguageC,
	".cc":  LanguageCXX,
	".cp":  LanguageCXX,
	".cxx": LanguageCXX,
	".cpp": LanguageCXX,
	".CPP": LanguageCXX,
	".c++": LanguageCXX,
	".C":   LanguageCXX,
	".ii":  LanguageCXX,
	".m":   LanguageC,
	".mm":  LanguageCXX,
	".S":   LanguageAssembly,
	".s":   LanguageAssembly,
	".asm": LanguageAssembly,
}

var objectExtensions = map[string]InputKind{
	".o":     InputObject,
	".obj":   InputObject,
	".a":     InputArchive,
	".lib":   InputArchive,
	".so":    InputSharedObject,
	".dylib": InputSharedObject,
	".dll":   InputSharedObject,
}
