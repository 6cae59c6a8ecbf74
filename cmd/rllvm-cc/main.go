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

// rllvm-cc is the C compiler wrapper of spec.md §6: it runs the real
// compile, then opportunistically emits and attaches bitcode.
//
//	rllvm-cc [-c|--compiler PATH] [-v...] -- <compiler-args...>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/h1994st/rllvm/core/config"
	"github.com/h1994st/rllvm/core/log"
	"github.com/h1994st/rllvm/wrapper"
)

var compilerOverride = flag.String("compiler", "", "override the resolved compiler path")
var verbosity verbosityFlag

func init() {
	flag.StringVar(compilerOverride, "c", "", "override the resolved compiler path (shorthand)")
	flag.Var(&verbosity, "v", "increase log verbosity, repeatable up to 5")
}

func main() {
	flag.Parse()
	compilerArgs := flag.Args()

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rllvm-cc: loading config:", err)
		os.Exit(1)
	}

	floor := log.Level(int(verbosity))
	if cfg.LogLevel > int(verbosity) {
		floor = log.Level(cfg.LogLevel)
	}
	ctx := log.New().Filter(floor).Process("rllvm-cc").Bind(context.Background())

	w := wrapper.NewCC(cfg)
	if *compilerOverride != "" {
		w.CompilerPath = *compilerOverride
	}
	os.Exit(w.Run(ctx, compilerArgs))
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
