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

package recovery_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/bitcode"
	"github.com/h1994st/rllvm/core/config"
	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/recovery"
	"github.com/h1994st/rllvm/toolchain"
)

func TestRecoverUnsupportedArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.bin")
	if err := os.WriteFile(path, []byte("not an object file"), 0644); err != nil {
		t.Fatal(err)
	}

	r := toolchain.New(config.Default())
	_, err := recovery.Recover(context.Background(), r, path, recovery.Options{})
	if errors.Cause(err) != fault.UnsupportedFormat {
		t.Fatalf("got %v, want UnsupportedFormat", err)
	}
}

// objectWithSection compiles a trivial translation unit with cc and
// embeds refs as the "llvm_bc" section via objcopy, mirroring what the
// wrapper's attach step produces on a real build.
func objectWithSection(t *testing.T, dir, name string, refs []string) string {
	t.Helper()
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("cc not available in this environment")
	}
	objcopy, err := exec.LookPath("objcopy")
	if err != nil {
		t.Skip("objcopy not available in this environment")
	}

	src := filepath.Join(dir, name+".c")
	if err := os.WriteFile(src, []byte("int "+name+"(void) { return 0; }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	obj := filepath.Join(dir, name+".o")
	if out, err := exec.Command(cc, "-c", "-o", obj, src).CombinedOutput(); err != nil {
		t.Fatalf("cc -c: %v\n%s", err, out)
	}

	payload := filepath.Join(dir, name+".section")
	content := ""
	for _, r := range refs {
		content += r + "\n"
	}
	if err := os.WriteFile(payload, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	arg := bitcode.Current.ObjcopySectionArg()
	cmd := exec.Command(objcopy,
		"--add-section="+arg+"="+payload,
		"--set-section-flags="+arg+"=noload,readonly",
		obj,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("objcopy --add-section: %v\n%s", err, out)
	}
	return obj
}

func TestRecoverArchiveDedupesMembersInOrder(t *testing.T) {
	llvmAr, err := exec.LookPath("llvm-ar")
	if err != nil {
		t.Skip("llvm-ar not available in this environment")
	}
	dir := t.TempDir()

	bcA := filepath.Join(dir, "a.bc")
	bcB := filepath.Join(dir, "b.bc")
	for _, bc := range []string{bcA, bcB} {
		if err := os.WriteFile(bc, append(bitcode.BitcodeMagic[:], 0, 0, 0, 0), 0644); err != nil {
			t.Fatal(err)
		}
	}

	objA := objectWithSection(t, dir, "a", []string{bcA})
	objB := objectWithSection(t, dir, "b", []string{bcB})

	archive := filepath.Join(dir, "libfoo.a")
	if out, err := exec.Command("ar", "rcs", archive, objA, objB).CombinedOutput(); err != nil {
		t.Fatalf("ar rcs: %v\n%s", err, out)
	}

	cfg := config.Default()
	cfg.LLVMArFilepath = llvmAr
	r := toolchain.New(cfg)

	kind, err := bitcode.Current.Classify(archive)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if kind != bitcode.ArtifactArchive {
		t.Fatalf("got kind %v, want ArtifactArchive", kind)
	}

	res, err := recovery.Recover(context.Background(), r, archive, recovery.Options{Mode: recovery.Manifest})
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	// S5: exactly two members, in source order, no duplicates.
	if len(res.Refs) != 2 {
		t.Fatalf("got %d refs, want 2: %v", len(res.Refs), res.Refs)
	}
	if filepath.Base(res.Refs[0]) != "a.bc" || filepath.Base(res.Refs[1]) != "b.bc" {
		t.Fatalf("got refs in order %v, want [a.bc, b.bc]", res.Refs)
	}
	if len(res.Missing) != 0 {
		t.Fatalf("got missing=%v, want none (fixtures were created)", res.Missing)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	// Same artifact, BitcodeArchive mode: llvm-ar rcs over the resolved refs.
	archiveRes, err := recovery.Recover(context.Background(), r, archive, recovery.Options{Mode: recovery.BitcodeArchive})
	if err != nil {
		t.Fatalf("Recover in archive mode: %v", err)
	}
	if filepath.Ext(archiveRes.OutputPath) != ".bca" {
		t.Fatalf("got output %q, want .bca suffix", archiveRes.OutputPath)
	}
	if _, err := os.Stat(archiveRes.OutputPath); err != nil {
		t.Fatalf("bitcode archive not written: %v", err)
	}
}

func TestRecoverMissingBitcodeReportsAll(t *testing.T) {
	dir := t.TempDir()

	missingA := filepath.Join(dir, "missing-a.bc")
	missingB := filepath.Join(dir, "missing-b.bc")
	obj := objectWithSection(t, dir, "c", []string{missingA, missingB})

	r := toolchain.New(config.Default())
	res, err := recovery.Recover(context.Background(), r, obj, recovery.Options{})
	if errors.Cause(err) != fault.MissingBitcode {
		t.Fatalf("got err=%v, want MissingBitcode", err)
	}
	// S6 supplement: every missing ref is reported, not just the first.
	if len(res.Missing) != 2 {
		t.Fatalf("got %d missing refs, want 2: %v", len(res.Missing), res.Missing)
	}
}

func TestRecoverManifestSucceedsDespiteMissingRefs(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.bc")
	obj := objectWithSection(t, dir, "d", []string{missing})

	r := toolchain.New(config.Default())
	res, err := recovery.Recover(context.Background(), r, obj, recovery.Options{Mode: recovery.Manifest})
	if err != nil {
		t.Fatalf("Recover in manifest mode: %v", err)
	}
	if len(res.Missing) != 1 || res.Missing[0] != missing {
		t.Fatalf("got missing=%v", res.Missing)
	}
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if string(data) != missing+"\n" {
		t.Fatalf("got manifest %q", data)
	}
}
