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

package shell

import (
	"context"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/core/log"
)

// LocalTarget runs the command on the local machine via os/exec. It is the
// only Target every rllvm-cc/rllvm-cxx/rllvm-get-bc invocation uses: every
// LLVM subprocess this toolchain shells out to (clang, llvm-link, llvm-ar,
// llvm-objcopy) runs on the same host as the wrapper itself.
var LocalTarget Target = localTarget{}

type localTarget struct{}

type localProcess struct {
	exec *exec.Cmd
	name string
}

func (localTarget) Start(cmd Cmd) (Process, error) {
	p := &localProcess{
		exec: exec.Command(cmd.Name, cmd.Args...),
		name: cmd.Name,
	}
	p.exec.Dir = cmd.Dir
	p.exec.Stdout = cmd.Stdout
	p.exec.Stderr = cmd.Stderr
	p.exec.Stdin = cmd.Stdin
	p.exec.Env = cmd.Environment.Vars()
	return p, p.exec.Start()
}

// Wait blocks on the child's exit, racing it against ctx. A build system
// that kills the wrapper (timeout, Ctrl-C, a -j worker being torn down)
// should kill the subprocess it started too, rather than leaving an orphan
// clang running loose; the cancellation path is reported as a
// fault.Cancelled so callers (wrapper.Run's I5 exit-code dispatch,
// recovery.Recover's subprocess steps) see it as distinct from both a
// normal non-zero exit and a tool-resolution failure.
func (p *localProcess) Wait(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- p.exec.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.W(ctx, "killing %s: %v", p.name, ctx.Err())
		p.Kill()
		<-done
		return errors.Wrapf(fault.Cancelled, "%s: %v", p.name, ctx.Err())
	}
}

func (p *localProcess) Kill() error {
	return p.exec.Process.Kill()
}
