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

package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/core/os/shell"
)

func TestCommandCancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := shell.Command("sleep", "5").Run(ctx)
	if err == nil {
		t.Fatalf("expected an error from a cancelled command")
	}
	if errors.Cause(err) != fault.Cancelled {
		t.Fatalf("got cause %v, want fault.Cancelled", errors.Cause(err))
	}
}
