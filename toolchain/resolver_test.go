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

package toolchain_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/config"
	"github.com/h1994st/rllvm/core/fault"
	"github.com/h1994st/rllvm/toolchain"
)

func TestResolveExplicitConfigPathWins(t *testing.T) {
	cfg := config.Default()
	cfg.ClangFilepath = "/opt/llvm/bin/clang"
	r := toolchain.New(cfg)
	got, err := r.Resolve(context.Background(), toolchain.ToolClang)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/opt/llvm/bin/clang" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveNotFound(t *testing.T) {
	cfg := config.Default()
	r := toolchain.New(cfg)
	_, err := r.Resolve(context.Background(), toolchain.Tool(999))
	if errors.Cause(err) != fault.ToolNotFound {
		t.Fatalf("got %v, want ToolNotFound", err)
	}
}
