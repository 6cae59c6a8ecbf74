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

package fault

// The error taxonomy of spec.md §7. Each is a sentinel: use errors.Cause
// (github.com/pkg/errors) to recover one of these from a wrapped error.
const (
	// ConfigError: missing required config key or unreadable config.
	ConfigError = Const("config error")
	// ToolNotFound: a required LLVM tool could not be resolved.
	ToolNotFound = Const("tool not found")
	// InvalidArgs: unparseable wrapper-side argv.
	InvalidArgs = Const("invalid arguments")
	// NativeCompileFailed: the real compile exited non-zero.
	NativeCompileFailed = Const("native compile failed")
	// BitcodeCompileFailed: the parallel bitcode invocation failed.
	BitcodeCompileFailed = Const("bitcode compile failed")
	// AttachFailed: writing the binary section failed.
	AttachFailed = Const("attach failed")
	// UnsupportedFormat: recovery encountered an artifact it cannot parse.
	UnsupportedFormat = Const("unsupported artifact format")
	// MissingBitcode: recovery found a BitcodeRef whose file does not exist.
	MissingBitcode = Const("missing bitcode")
	// ToolInvocationError: an LLVM subprocess returned non-zero during recovery.
	ToolInvocationError = Const("tool invocation error")
	// Cancelled: a subprocess was killed because its context was done
	// before it exited on its own.
	Cancelled = Const("operation cancelled")
)
