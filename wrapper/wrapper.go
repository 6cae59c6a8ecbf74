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

// Package wrapper implements the compiler wrapper of spec.md §4.2: it
// orchestrates the real compile, and — when the classified intent wants
// it — a parallel bitcode compile plus attachment of the result into the
// produced native artifact.
package wrapper

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/bitcode"
	"github.com/h1994st/rllvm/classify"
	"github.com/h1994st/rllvm/core/config"
	"github.com/h1994st/rllvm/core/log"
	"github.com/h1994st/rllvm/core/os/shell"
	"github.com/h1994st/rllvm/toolchain"
)

// DiagnosticKind labels a non-fatal event recorded during a Run (spec.md
// §7 policy: "every error path that is not NativeCompileFailed is
// recovered locally ... logged at warn level").
type DiagnosticKind int

const (
	DiagnosticBitcodeCompileFailed DiagnosticKind = iota
	DiagnosticAttachFailed
)

// Diagnostic is one recorded non-fatal event from a wrapper Run,
// supplementing the dropped original_source/src/diagnostics.rs collector.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

// Wrapper is a configured compiler wrapper, fixed to one language/compiler
// identity (spec.md §9 "Wrapper polymorphism": one driver, two entry
// points, not inheritance).
type Wrapper struct {
	Kind         classify.WrapperKind
	CompilerPath string
	Config       config.Config
	Resolver     *toolchain.Resolver
	Diagnostics  []Diagnostic
}

// NewCC returns a Wrapper defaulting to C and the configured clang path.
func NewCC(cfg config.Config) *Wrapper {
	r := toolchain.New(cfg)
	return &Wrapper{Kind: classify.WrapperCC, CompilerPath: cfg.ClangFilepath, Config: cfg, Resolver: r}
}

// NewCXX returns a Wrapper defaulting to C++ and the configured clang++ path.
func NewCXX(cfg config.Config) *Wrapper {
	r := toolchain.New(cfg)
	return &Wrapper{Kind: classify.WrapperCXX, CompilerPath: cfg.ClangxxFilepath, Config: cfg, Resolver: r}
}

func (w *Wrapper) compilerTool() toolchain.Tool {
	if w.Kind == classify.WrapperCXX {
		return toolchain.ToolClangxx
	}
	return toolchain.ToolClang
}

// resolveCompiler returns the real compiler path: CompilerPath if set
// (wrapper-flag override per spec.md §6, or config), else resolved via
// the tool resolver.
func (w *Wrapper) resolveCompiler(ctx context.Context) (string, error) {
	if w.CompilerPath != "" {
		return w.CompilerPath, nil
	}
	return w.Resolver.Resolve(ctx, w.compilerTool())
}

// Run implements the state machine of spec.md §4.2. The returned int is
// the process exit code to propagate (I5: equals the native compiler's
// exit status whenever the native pass ran at all).
func (w *Wrapper) Run(ctx context.Context, rawArgv []string) int {
	compiler, err := w.resolveCompiler(ctx)
	if err != nil {
		log.E(ctx, "resolving compiler: %v", err)
		return 1
	}

	// Step 3: native pass, using the *original*, unexpanded argv — the
	// real compiler handles its own @file expansion.
	nativeCmd := shell.Command(compiler, rawArgv...)
	nativeErr := nativeCmd.Run(ctx)
	exitCode := exitCodeOf(nativeErr)
	if exitCode != 0 {
		// I5: bitcode work is skipped entirely on native-compile failure.
		return exitCode
	}

	expanded, err := classify.Expand(rawArgv)
	if err != nil {
		log.W(ctx, "response-file expansion failed, skipping bitcode pass: %v", err)
		return 0
	}
	intent := classify.Classify(expanded, w.Kind, classify.Options{
		BitcodeGenerationFlags: w.Config.BitcodeGenerationFlags,
	})

	// Step 4: gate.
	if w.Config.IsConfigureOnly {
		log.D(ctx, "is_configure_only: skipping bitcode pass")
		return 0
	}
	if !intent.WantsBitcode() {
		log.D(ctx, "mode %v does not want bitcode", intent.Mode)
		return 0
	}

	store, err := bitcode.NewStore(w.Config.BitcodeStorePath)
	if err != nil {
		w.warn(ctx, DiagnosticAttachFailed, fmt.Sprintf("opening bitcode store: %v", err))
		return 0
	}

	w.runBitcodePass(ctx, compiler, intent, store)
	return 0
}

// runBitcodePass implements spec.md §4.2 steps 5–6. Failures here are
// recorded as Diagnostics and logged, never change the wrapper's exit
// code (already returned by Run).
func (w *Wrapper) runBitcodePass(ctx context.Context, compiler string, intent classify.CompilationIntent, store bitcode.Store) {
	objcopy, err := w.Resolver.Resolve(ctx, toolchain.ToolLLVMObjcopy)
	if err != nil {
		w.warn(ctx, DiagnosticAttachFailed, fmt.Sprintf("resolving llvm-objcopy: %v", err))
		return
	}

	// Per-source bitcode generation (spec.md §4.2 step 5).
	producedRefs := map[string]string{} // source path -> committed bitcode path
	for _, src := range intent.Sources() {
		objOut := perSourceObjectOutput(intent, src)
		bcFinal, err := store.PathFor(objOut)
		if err != nil {
			w.warn(ctx, DiagnosticBitcodeCompileFailed, fmt.Sprintf("deriving bitcode path for %s: %v", src.Path, err))
			continue
		}

		tmp, err := ioutil.TempFile(filepath.Dir(bcFinal), "rllvm-*.bc")
		if err != nil {
			w.warn(ctx, DiagnosticBitcodeCompileFailed, fmt.Sprintf("creating scratch bitcode file: %v", err))
			continue
		}
		tmp.Close()
		os.Remove(tmp.Name())

		args := append([]string{"-c", "-emit-llvm", "-o", tmp.Name()}, intent.BitcodeFlags...)
		args = append(args, src.Path)
		if err := shell.Command(compiler, args...).Run(ctx); err != nil {
			w.warn(ctx, DiagnosticBitcodeCompileFailed, fmt.Sprintf("bitcode compile of %s: %v", src.Path, err))
			os.Remove(tmp.Name())
			continue
		}
		if err := store.Commit(tmp.Name(), bcFinal); err != nil {
			w.warn(ctx, DiagnosticBitcodeCompileFailed, fmt.Sprintf("committing bitcode for %s: %v", src.Path, err))
			continue
		}
		producedRefs[src.Path] = bcFinal
	}

	// Step 6: attach. Per I1, a compile-only invocation attaches exactly
	// one BitcodeRef to each produced object; a link step attaches the
	// order-preserving union of its inputs' refs (I2) to the single
	// linked output.
	if intent.Mode == classify.ModeCompileOnly {
		for _, src := range intent.Sources() {
			ref, ok := producedRefs[src.Path]
			if !ok {
				continue
			}
			out := perSourceObjectOutput(intent, src)
			if err := bitcode.WriteRefs(ctx, objcopy, out, []string{ref}); err != nil {
				w.warn(ctx, DiagnosticAttachFailed, fmt.Sprintf("attaching section to %s: %v", out, err))
			}
		}
		return
	}

	var refs []string
	for _, src := range intent.Sources() {
		if ref, ok := producedRefs[src.Path]; ok {
			refs = append(refs, ref)
		}
	}
	for _, obj := range intent.Objects() {
		if obj.Kind == classify.InputArchive {
			refs = append(refs, w.archiveMemberRefs(ctx, obj.Path)...)
			continue
		}
		if existing, err := bitcode.ReadRefs(obj.Path); err == nil {
			refs = append(refs, existing...)
		}
	}
	if len(refs) == 0 {
		return
	}
	out := resolveLinkOutput(intent)
	if err := bitcode.WriteRefs(ctx, objcopy, out, refs); err != nil {
		w.warn(ctx, DiagnosticAttachFailed, fmt.Sprintf("attaching section to %s: %v", out, err))
	}
}

// archiveMemberRefs reads the BitcodeRefs embedded in every member of a
// pre-built archive passed as a direct link input, so linking against a
// static library built by the wrapper still carries its bitcode forward.
func (w *Wrapper) archiveMemberRefs(ctx context.Context, archivePath string) []string {
	llvmAr, err := w.Resolver.Resolve(ctx, toolchain.ToolLLVMAr)
	if err != nil {
		w.warn(ctx, DiagnosticAttachFailed, fmt.Sprintf("resolving llvm-ar for %s: %v", archivePath, err))
		return nil
	}
	members, err := bitcode.IterArchiveMembers(ctx, llvmAr, archivePath)
	if err != nil {
		w.warn(ctx, DiagnosticAttachFailed, fmt.Sprintf("reading archive %s: %v", archivePath, err))
		return nil
	}
	if len(members) == 0 {
		return nil
	}
	defer os.RemoveAll(filepath.Dir(members[0]))

	var refs []string
	for _, member := range members {
		if existing, err := bitcode.ReadRefs(member); err == nil {
			refs = append(refs, existing...)
		}
	}
	return refs
}

func (w *Wrapper) warn(ctx context.Context, kind DiagnosticKind, msg string) {
	w.Diagnostics = append(w.Diagnostics, Diagnostic{Kind: kind, Message: msg})
	log.W(ctx, "%s", msg)
}

// perSourceObjectOutput derives the native object path a given source
// would produce, matching what the real compiler pass just wrote: the
// explicit -o in compile-only single-source mode, or the implicit
// "<base>.o" default otherwise.
func perSourceObjectOutput(intent classify.CompilationIntent, src classify.Input) string {
	if intent.Mode == classify.ModeCompileOnly && intent.Output != "" && len(intent.Sources()) == 1 {
		return intent.Output
	}
	base := filepath.Base(src.Path)
	return base[:len(base)-len(filepath.Ext(base))] + ".o"
}

// resolveLinkOutput returns the native artifact path a link step (or
// compile-and-link) produces: the explicit -o, or the default "a.out".
func resolveLinkOutput(intent classify.CompilationIntent) string {
	if intent.Output != "" {
		return intent.Output
	}
	return "a.out"
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := errors.Cause(err).(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return 1
}
