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

package log

import "context"

type key int

const loggerKey key = 0

// Logger carries a Handler and a severity floor through a context.Context.
type Logger struct {
	handler Handler
	floor   Severity
	process string
}

// Bind returns a child context carrying l.
func (l *Logger) Bind(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Filter returns a copy of l with its severity floor set to floor.
func (l *Logger) Filter(floor Severity) *Logger {
	cp := *l
	cp.floor = floor
	return &cp
}

// Process returns a copy of l tagged with a process name, used by
// core/os/shell to prefix a subprocess's traced output with its name.
func (l *Logger) Process(name string) *Logger {
	cp := *l
	cp.process = name
	return &cp
}

// New returns a root Logger writing to Std at Info and above.
func New() *Logger {
	return &Logger{handler: Std, floor: Info}
}

// From extracts the Logger bound to ctx, or a default root Logger if none
// was bound.
func From(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return New()
}
