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

// rllvm-get-bc recovers whole-program bitcode from a built artifact, per
// spec.md §6:
//
//	rllvm-get-bc [-o OUT] [-b] [-m] [-v...] <artifact>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/config"
	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/core/log"
	"github.com/h1994st/rllvm/recovery"
	"github.com/h1994st/rllvm/toolchain"
)

const (
	exitOK         = 0
	exitRecovery   = 1
	exitUsageError = 2
)

var (
	output       = flag.String("o", "", "output path (default derived from the artifact name and mode)")
	archiveMode  = flag.Bool("b", false, "bitcode-archive mode: emit a .bca via llvm-ar")
	manifestMode = flag.Bool("m", false, "manifest mode: list resolved bitcode paths without requiring all to exist")
	infoMode     = flag.Bool("i", false, "print the resolved toolchain and bitcode store location, then exit")
)

var verbosity verbosityFlag

func init() {
	flag.Var(&verbosity, "v", "increase log verbosity, repeatable up to 5")
}

func main() {
	flag.Parse()

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rllvm-get-bc: loading config:", err)
		os.Exit(exitUsageError)
	}

	floor := log.Level(int(verbosity))
	if cfg.LogLevel > int(verbosity) {
		floor = log.Level(cfg.LogLevel)
	}
	ctx := log.New().Filter(floor).Process("rllvm-get-bc").Bind(context.Background())

	if *infoMode {
		printInfo(ctx, cfg)
		os.Exit(exitOK)
	}

	if *archiveMode && *manifestMode {
		fmt.Fprintln(os.Stderr, "rllvm-get-bc: -b and -m are mutually exclusive")
		os.Exit(exitUsageError)
	}
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: rllvm-get-bc [-o OUT] [-b] [-m] [-i] [-v...] <artifact>")
		os.Exit(exitUsageError)
	}
	artifact := args[0]

	mode := recovery.LinkedBitcode
	switch {
	case *archiveMode:
		mode = recovery.BitcodeArchive
	case *manifestMode:
		mode = recovery.Manifest
	}

	resolver := toolchain.New(cfg)
	result, err := recovery.Recover(ctx, resolver, artifact, recovery.Options{Mode: mode, Output: *output})
	if err != nil {
		log.E(ctx, "%v", err)
		if errors.Cause(err) == fault.MissingBitcode {
			fmt.Fprintf(os.Stderr, "rllvm-get-bc: missing bitcode: %s\n", joinMissing(result.Missing))
		} else {
			fmt.Fprintln(os.Stderr, "rllvm-get-bc:", err)
		}
		os.Exit(exitRecovery)
	}

	fmt.Println(result.OutputPath)
	os.Exit(exitOK)
}

func printInfo(ctx context.Context, cfg config.Config) {
	resolver := toolchain.New(cfg)
	fmt.Println("bitcode_store_path:", cfg.BitcodeStorePath)
	for name, path := range toolchain.Describe(ctx, resolver) {
		fmt.Printf("%s: %s\n", name, path)
	}
}

func joinMissing(paths []string) string {
	out := ""
	for i, p := range paths {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// verbosityFlag implements flag.Value as a no-argument, repeatable
// counter: each "-v" occurrence increments it, matching getopt-style
// "-v -v -v" verbosity flags rather than a single "-v=N".
type verbosityFlag int

func (v *verbosityFlag) String() string { return fmt.Sprintf("%d", int(*v)) }

func (v *verbosityFlag) Set(string) error {
	if *v < 5 {
		*v++
	}
	return nil
}

func (v *verbosityFlag) IsBoolFlag() bool { return true }
