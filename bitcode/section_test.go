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

func TestReadRefsRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.bin")
	os.WriteFile(path, []byte("not an object file"), 0644)
	if _, err := bitcode.ReadRefs(path); err == nil {
		t.Fatalf("expected an error opening a non-ELF/Mach-O file")
	}
}

func TestIsArchiveMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.a")
	os.WriteFile(path, append([]byte("!<arch>\n"), []byte("rest")...), 0644)
	kind, err := bitcode.Current.Classify(path)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if kind != bitcode.ArtifactArchive {
		t.Fatalf("got kind %v, want ArtifactArchive", kind)
	}
}
