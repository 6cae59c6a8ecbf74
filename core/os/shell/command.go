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

// Package shell is the process runner of spec.md §2/§4.5: it executes an
// external tool with an argv and environment, and captures exit status and
// streams. Every LLVM subprocess (clang, llvm-link, llvm-ar, llvm-objcopy)
// goes through a Cmd.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/log"
)

// Cmd holds the configuration to run an external command. A Cmd can be run
// any number of times, and new commands may be derived from an existing one.
type Cmd struct {
	// Name is the executable to run.
	Name string
	// Args is the argument vector, not including Name.
	Args []string
	// Target is where the command executes. Defaults to LocalTarget.
	Target Target
	// Dir is the working directory, if non-empty.
	Dir string
	// Stdout, Stderr, Stdin are wired to the child process when set.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	// Environment is the process environment. Nil means inherit.
	Environment *Env
}

// Command returns a Cmd with the given executable and arguments.
func Command(name string, args ...string) Cmd {
	return Cmd{Name: name, Args: args}
}

// On returns a copy of cmd with Target set to target.
func (cmd Cmd) On(target Target) Cmd {
	cmd.Target = target
	return cmd
}

// In returns a copy of cmd with Dir set to dir.
func (cmd Cmd) In(dir string) Cmd {
	cmd.Dir = dir
	return cmd
}

// Capture returns a copy of cmd with Stdout and Stderr set.
func (cmd Cmd) Capture(stdout, stderr io.Writer) Cmd {
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd
}

// Env returns a copy of cmd with Environment set to env.
func (cmd Cmd) Env(env *Env) Cmd {
	cmd.Environment = env
	return cmd
}

// With returns a copy of cmd with args appended to Args.
func (cmd Cmd) With(args ...string) Cmd {
	old := cmd.Args
	cmd.Args = make([]string, len(old)+len(args))
	copy(cmd.Args, old)
	copy(cmd.Args[len(old):], args)
	return cmd
}

// Run executes the command and blocks until it completes or ctx is done.
//
// Every invocation is traced at Debug severity against the logger bound to
// ctx, rather than requiring a per-Cmd opt-in flag: the three rllvm-*
// entry points already turn their repeated "-v" count into a severity
// floor (core/log.Level), so a build run with enough -v's sees every
// clang/llvm-ar/llvm-link/llvm-objcopy invocation this package makes
// without each call site having to ask for it individually.
func (cmd Cmd) Run(ctx context.Context) error {
	if cmd.Target == nil {
		cmd.Target = LocalTarget
	}

	l := log.From(ctx).Process(filepath.Base(cmd.Name))
	l.D("exec: %v", cmd)

	if l.Enabled(log.Debug) {
		traceOut := l.Writer(log.Debug)
		defer traceOut.Close()
		if cmd.Stdout != nil {
			cmd.Stdout = io.MultiWriter(cmd.Stdout, traceOut)
		} else {
			cmd.Stdout = traceOut
		}

		traceErr := l.Writer(log.Debug)
		defer traceErr.Close()
		if cmd.Stderr != nil {
			cmd.Stderr = io.MultiWriter(cmd.Stderr, traceErr)
		} else {
			cmd.Stderr = traceErr
		}
	}

	process, err := cmd.Target.Start(cmd)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to start", cmd.Name)
	}
	if err := process.Wait(ctx); err != nil {
		return errors.Wrapf(err, "%s", cmd.Name)
	}
	return nil
}

// Call runs cmd, capturing combined stdout+stderr into a trimmed string.
func (cmd Cmd) Call(ctx context.Context) (string, error) {
	buf := &bytes.Buffer{}
	err := cmd.Capture(buf, buf).Run(ctx)
	return strings.TrimSpace(buf.String()), err
}

// Format implements fmt.Formatter so a Cmd prints as a shell-ish line.
func (cmd Cmd) Format(f fmt.State, c rune) {
	fmt.Fprint(f, cmd.Name)
	for _, arg := range cmd.Args {
		fmt.Fprint(f, " ")
		if strings.ContainsRune(arg, ' ') {
			fmt.Fprintf(f, "%q", arg)
		} else {
			fmt.Fprint(f, arg)
		}
	}
}

// SplitEnv splits a "KEY=v1:v2" string into key and values.
func SplitEnv(s string) (key string, vals []string) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", nil
	}
	return parts[0], strings.Split(parts[1], string(os.PathListSeparator))
}

// JoinEnv combines a key and values into a "KEY=v1:v2" string.
func JoinEnv(key string, vals []string) string {
	return key + "=" + strings.Join(vals, string(os.PathListSeparator))
}
