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

package bitcode

import (
	"context"
	"debug/elf"
	"debug/macho"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/core/os/shell"
)

// ArtifactKind is the binary-format sniff result of spec.md §4.3 step 1.
type ArtifactKind int

const (
	ArtifactUnknown ArtifactKind = iota
	ArtifactObject
	ArtifactExecutableOrShared
	ArtifactArchive
)

// Platform centralizes the platform-specific section-naming and
// embedding mechanics (spec.md §9: "a platform trait/capability
// abstraction with two implementations ... selected at process start").
type Platform interface {
	// ObjcopySectionArg returns the "=" delimited section/segment name
	// llvm-objcopy expects for --add-section / --remove-section.
	ObjcopySectionArg() string
	// ReadSection extracts the raw section bytes from an object or linked
	// artifact. A nil, nil return means the section is absent.
	ReadSection(path string) ([]byte, error)
	// Classify sniffs a file's binary format.
	Classify(path string) (ArtifactKind, error)
}

// Current is the Platform for the host this process is running on,
// selected once at process start from runtime.GOOS.
var Current = selectPlatform()

func selectPlatform() Platform {
	switch runtime.GOOS {
	case "darwin", "ios":
		return machoPlatform{}
	default:
		return elfPlatform{}
	}
}

// --- ELF ---

type elfPlatform struct{}

func (elfPlatform) ObjcopySectionArg() string { return "." + SectionName }

func (elfPlatform) Classify(path string) (ArtifactKind, error) {
	if isArchive(path) {
		return ArtifactArchive, nil
	}
	f, err := elf.Open(path)
	if err != nil {
		return ArtifactUnknown, errors.Wrapf(fault.UnsupportedFormat, "%s: %v", path, err)
	}
	defer f.Close()
	switch f.Type {
	case elf.ET_REL:
		return ArtifactObject, nil
	case elf.ET_EXEC, elf.ET_DYN:
		return ArtifactExecutableOrShared, nil
	default:
		return ArtifactUnknown, errors.Wrapf(fault.UnsupportedFormat, "%s: unhandled ELF type %v", path, f.Type)
	}
}

func (elfPlatform) ReadSection(path string) ([]byte, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	sec := f.Section("." + SectionName)
	if sec == nil {
		return nil, nil
	}
	return sec.Data()
}

// --- Mach-O ---

type machoPlatform struct{}

const machoSegment = "__RLLVM"

func (machoPlatform) ObjcopySectionArg() string { return machoSegment + "," + SectionName }

func (machoPlatform) Classify(path string) (ArtifactKind, error) {
	if isArchive(path) {
		return ArtifactArchive, nil
	}
	f, err := macho.Open(path)
	if err != nil {
		return ArtifactUnknown, errors.Wrapf(fault.UnsupportedFormat, "%s: %v", path, err)
	}
	defer f.Close()
	switch f.Type {
	case macho.TypeObj:
		return ArtifactObject, nil
	case macho.TypeExec, macho.TypeDylib, macho.TypeBundle:
		return ArtifactExecutableOrShared, nil
	default:
		return ArtifactUnknown, errors.Wrapf(fault.UnsupportedFormat, "%s: unhandled Mach-O type %v", path, f.Type)
	}
}

func (machoPlatform) ReadSection(path string) ([]byte, error) {
	f, err := macho.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	sec := f.Section(SectionName)
	if sec == nil {
		return nil, nil
	}
	return sec.Data()
}

func isArchive(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, 8)
	n, _ := f.Read(magic)
	return n == 8 && string(magic) == "!<arch>\n"
}

// ReadRefs reads the section at path (using the current Platform) and
// splits it into a newline-delimited list of BitcodeRef paths (spec.md §6
// "Binary section layout"). A missing section yields a nil, nil result.
func ReadRefs(path string) ([]string, error) {
	data, err := Current.ReadSection(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var refs []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n\x00"), "\n") {
		line = strings.Trim(line, "\x00")
		if line != "" {
			refs = append(refs, line)
		}
	}
	return refs, nil
}

// WriteRefs writes refs as a newline-joined section into path via
// llvm-objcopy (spec.md §4.5: "uses llvm-objcopy as the actual writer").
// If path already carries a section, its existing content is read and
// unioned with refs first (order-preserving, spec.md §4.2 "Section
// attachment policy": "existing content is first read and merged... in a
// single objcopy invocation").
func WriteRefs(ctx context.Context, objcopyPath, path string, refs []string) error {
	existing, err := ReadRefs(path)
	if err != nil {
		// A file the platform reader cannot open is not fatal here (a
		// missing section is not an error at all: ReadRefs returns nil,
		// nil); objcopy itself will fail loudly if path is genuinely bad.
		existing = nil
	}
	merged := unionPreserveOrder(existing, refs)

	tmp, err := ioutil.TempFile("", "rllvm-section-*")
	if err != nil {
		return errors.Wrap(err, "creating temp section payload")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(strings.Join(merged, "\n") + "\n"); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp section payload")
	}
	tmp.Close()

	arg := Current.ObjcopySectionArg()
	cmd := shell.Command(objcopyPath,
		"--remove-section="+arg,
		"--add-section="+arg+"="+tmp.Name(),
		"--set-section-flags="+arg+"=noload,readonly",
		path,
	)
	if out, err := cmd.Call(ctx); err != nil {
		return errors.Wrapf(fault.AttachFailed, "llvm-objcopy on %s: %v (%s)", path, err, out)
	}
	return nil
}

func unionPreserveOrder(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			c, err := filepath.Abs(v)
			if err != nil {
				c = v
			}
			if !seen[c] {
				seen[c] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// IterArchiveMembers extracts every member of the archive at path into a
// scratch directory via llvm-ar, returning the extracted member paths in
// archive order. The caller is responsible for removing the returned
// directory (the first path's parent) once done.
func IterArchiveMembers(ctx context.Context, arPath, archivePath string) ([]string, error) {
	dir, err := ioutil.TempDir("", "rllvm-archive-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating archive scratch dir")
	}

	names, err := shell.Command(arPath, "t", archivePath).Call(ctx)
	if err != nil {
		return nil, errors.Wrapf(fault.ToolInvocationError, "listing members of %s: %v", archivePath, err)
	}

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, err
	}
	if err := shell.Command(arPath, "x", absArchive).In(dir).Run(ctx); err != nil {
		return nil, errors.Wrapf(fault.ToolInvocationError, "extracting %s: %v", archivePath, err)
	}

	var members []string
	for _, name := range strings.Split(strings.TrimSpace(names), "\n") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		members = append(members, filepath.Join(dir, name))
	}
	return members, nil
}
