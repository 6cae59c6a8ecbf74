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

import "context"

// Target starts a Cmd somewhere, returning a handle to the running Process.
// The only production Target is LocalTarget; the seam exists so tests can
// substitute a fake without touching os/exec.
type Target interface {
	Start(cmd Cmd) (Process, error)
}

// Process is a running command.
type Process interface {
	// Wait blocks until the process exits or ctx is done, in which case
	// the process is killed and a fault.Cancelled error is returned.
	Wait(ctx context.Context) error
	// Kill terminates the process immediately.
	Kill() error
}
