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

package bitcode_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/h1994st/rllvm/bitcode"
)

func TestStorePathForIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	store, err := bitcode.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	a, err := store.PathFor("hello.o")
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	b, err := store.PathFor("hello.o")
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	if a != b {
		t.Fatalf("PathFor not deterministic: %q vs %q", a, b)
	}
}

func TestStorePathForNoCollision(t *testing.T) {
	dir := t.TempDir()
	store, _ := bitcode.NewStore(dir)
	a, _ := store.PathFor(filepath.Join(dir, "src1", "hello.o"))
	b, _ := store.PathFor(filepath.Join(dir, "src2", "hello.o"))
	if a == b {
		t.Fatalf("two distinct objects collided on bitcode path %q", a)
	}
	if filepath.Dir(a) != dir || filepath.Dir(b) != dir {
		t.Fatalf("store layout must be flat: %q, %q", a, b)
	}
}

func TestStoreCommitIsRename(t *testing.T) {
	dir := t.TempDir()
	store, _ := bitcode.NewStore(dir)
	tmp := filepath.Join(dir, "scratch.bc")
	if err := os.WriteFile(tmp, []byte("BC\xc0\xde"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	final, _ := store.PathFor("hello.o")
	if err := store.Commit(tmp, final); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !bitcode.IsBitcodeFile(final) {
		t.Fatalf("expected %s to be a valid bitcode file", final)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be gone after rename")
	}
}

func TestIsBitcodeFileRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-bitcode.bc")
	os.WriteFile(path, []byte("not bitcode"), 0644)
	if bitcode.IsBitcodeFile(path) {
		t.Fatalf("garbage file should not look like bitcode")
	}
}
