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

// Package toolchain resolves the concrete LLVM executables (spec.md
// §4.4): clang, clang++, llvm-link, llvm-ar, llvm-objcopy.
package toolchain

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/h1994st/rllvm/core/config"
	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/core/os/shell"
)

// Tool names the five LLVM executables the core depends on.
type Tool int

const (
	ToolClang Tool = iota
	ToolClangxx
	ToolLLVMLink
	ToolLLVMAr
	ToolLLVMObjcopy
)

func (t Tool) String() string {
	switch t {
	case ToolClang:
		return "clang"
	case ToolClangxx:
		return "clang++"
	case ToolLLVMLink:
		return "llvm-link"
	case ToolLLVMAr:
		return "llvm-ar"
	case ToolLLVMObjcopy:
		return "llvm-objcopy"
	default:
		return "unknown-tool"
	}
}

func (t Tool) configuredPath(cfg config.Config) string {
	switch t {
	case ToolClang:
		return cfg.ClangFilepath
	case ToolClangxx:
		return cfg.ClangxxFilepath
	case ToolLLVMLink:
		return cfg.LLVMLinkFilepath
	case ToolLLVMAr:
		return cfg.LLVMArFilepath
	case ToolLLVMObjcopy:
		return cfg.LLVMObjcopyFilepath
	default:
		return ""
	}
}

// Resolver resolves LLVM tool paths using the preference order of
// spec.md §4.4: explicit config path, llvm-config --bindir, PATH lookup,
// platform heuristic.
type Resolver struct {
	cfg    config.Config
	bindir string // lazily populated from `llvm-config --bindir`
	tried  bool
}

// New returns a Resolver backed by cfg.
func New(cfg config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve returns the absolute path to the requested tool.
func (r *Resolver) Resolve(ctx context.Context, t Tool) (string, error) {
	if p := t.configuredPath(r.cfg); p != "" {
		return p, nil
	}

	if bindir := r.llvmConfigBindir(ctx); bindir != "" {
		candidate := filepath.Join(bindir, t.String())
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}

	if p, err := exec.LookPath(t.String()); err == nil {
		return p, nil
	}

	if runtime.GOOS == "darwin" {
		if p := r.macHeuristic(t); p != "" {
			return p, nil
		}
	}

	return "", errors.Wrapf(fault.ToolNotFound, "could not resolve %s", t)
}

func (r *Resolver) llvmConfigBindir(ctx context.Context) string {
	if r.tried {
		return r.bindir
	}
	r.tried = true

	llvmConfig := r.cfg.LLVMConfigFilepath
	if llvmConfig == "" {
		var err error
		llvmConfig, err = exec.LookPath("llvm-config")
		if err != nil {
			return ""
		}
	}
	out, err := shell.Command(llvmConfig, "--bindir").Call(ctx)
	if err != nil {
		return ""
	}
	r.bindir = out
	return r.bindir
}

// macHeuristic globs through Homebrew's Cellar layout, picking the
// highest version directory within the supported range, per spec.md
// §4.4 "glob through the known Cellar/llvm/*/bin/ locations".
func (r *Resolver) macHeuristic(t Tool) string {
	matches, err := filepath.Glob("/usr/local/Cellar/llvm*/*/bin/" + t.String())
	if err != nil || len(matches) == 0 {
		matches, err = filepath.Glob("/opt/homebrew/Cellar/llvm*/*/bin/" + t.String())
		if err != nil || len(matches) == 0 {
			return ""
		}
	}
	matches = executableOnly(matches)
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}

// Describe resolves every known tool and reports its path (or the
// resolution error), for the info-mode supplement of spec.md §9's dropped
// `rllvm_info` binary: surfacing what a build would actually use without
// running one.
func Describe(ctx context.Context, r *Resolver) map[string]string {
	tools := []Tool{ToolClang, ToolClangxx, ToolLLVMLink, ToolLLVMAr, ToolLLVMObjcopy}
	out := make(map[string]string, len(tools))
	for _, t := range tools {
		path, err := r.Resolve(ctx, t)
		if err != nil {
			out[t.String()] = "unresolved: " + err.Error()
			continue
		}
		out[t.String()] = path
	}
	return out
}

// executableOnly filters out Cellar glob hits that exist but aren't
// executable by this user (e.g. a keg installed with restrictive
// permissions), using the raw access(2) check rather than trusting the
// glob match alone.
func executableOnly(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if unix.Access(p, unix.X_OK) == nil {
			out = append(out, p)
		}
	}
	return out
}
