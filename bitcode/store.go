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

// Package bitcode implements the BitcodeStore and the object-section I/O
// of spec.md §3/§4.5: a flat, content-addressed pool of per-TU bitcode
// files, and the read/write access to the binary section that references
// them from inside a native artifact.
package bitcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SectionName is the section/segment label spec.md §6 assigns on every
// supported platform family (ELF prefixes it with "." to form the section
// name ".llvm_bc"; Mach-O uses it as the section name within the __RLLVM
// segment).
const SectionName = "llvm_bc"

// Store is a directory acting as a flat, content-addressed pool of .bc
// files (spec.md §3 BitcodeStore, invariant I3).
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir, creating dir if necessary.
func NewStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Store{}, errors.Wrapf(err, "creating bitcode store %s", dir)
	}
	return Store{Dir: dir}, nil
}

// PathFor derives the deterministic bitcode file name for a given native
// object's canonical output path (spec.md §4.2 "Bitcode-store naming"):
// hash of the absolute path plus the leaf name, so rebuilding the same
// object yields the same reference and two different objects never
// collide.
func (s Store) PathFor(objectOutput string) (string, error) {
	abs, err := filepath.Abs(objectOutput)
	if err != nil {
		return "", errors.Wrapf(err, "resolving absolute path for %s", objectOutput)
	}
	sum := sha256.Sum256([]byte(abs))
	hash := hex.EncodeToString(sum[:])[:16]
	leaf := filepath.Base(abs)
	return filepath.Join(s.Dir, fmt.Sprintf("%s-%s.bc", hash, leaf)), nil
}

// Commit atomically publishes tmp (the just-compiled bitcode file, likely
// written outside the store) as final inside the store, tolerating
// concurrent writers racing to produce the same bitcode for the same
// translation unit (spec.md §5 hazard 1: "write-to-temp-then-rename ...
// Last writer wins; content is equivalent because the command and inputs
// are [the same]").
func (s Store) Commit(tmp, final string) error {
	if err := os.Rename(tmp, final); err != nil {
		return errors.Wrapf(err, "committing bitcode %s", final)
	}
	return nil
}

// BitcodeMagic is the four-byte signature of an LLVM bitcode file
// (spec.md GLOSSARY, P2).
var BitcodeMagic = [4]byte{'B', 'C', 0xC0, 0xDE}

// IsBitcodeFile reports whether path exists and begins with BitcodeMagic.
func IsBitcodeFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var buf [4]byte
	if _, err := f.Read(buf[:]); err != nil {
		return false
	}
	return buf == BitcodeMagic
}
