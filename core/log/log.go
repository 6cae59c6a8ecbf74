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

import (
	"context"
	"fmt"
)

// D logs a debug message to the logger bound to ctx.
func D(ctx context.Context, format string, args ...interface{}) { From(ctx).D(format, args...) }

// I logs an info message to the logger bound to ctx.
func I(ctx context.Context, format string, args ...interface{}) { From(ctx).I(format, args...) }

// W logs a warning message to the logger bound to ctx.
func W(ctx context.Context, format string, args ...interface{}) { From(ctx).W(format, args...) }

// E logs an error message to the logger bound to ctx.
func E(ctx context.Context, format string, args ...interface{}) { From(ctx).E(format, args...) }

func (l *Logger) log(s Severity, format string, args ...interface{}) {
	if l.handler == nil || s > l.floor {
		return
	}
	text := fmt.Sprintf(format, args...)
	if l.process != "" {
		text = l.process + ": " + text
	}
	l.handler.Handle(s, text)
}

// D logs a debug message.
func (l *Logger) D(format string, args ...interface{}) { l.log(Debug, format, args...) }

// I logs an info message.
func (l *Logger) I(format string, args ...interface{}) { l.log(Info, format, args...) }

// W logs a warning message.
func (l *Logger) W(format string, args ...interface{}) { l.log(Warning, format, args...) }

// E logs an error message.
func (l *Logger) E(format string, args ...interface{}) { l.log(Error, format, args...) }

// Enabled reports whether a message at severity s would actually be
// handled, so a caller can skip building an expensive payload (e.g.
// core/os/shell deciding whether to wire up a subprocess output tracer)
// when nothing would read it.
func (l *Logger) Enabled(s Severity) bool { return l.handler != nil && s <= l.floor }

// Err logs msg plus err's text at Error severity and returns err unchanged,
// so it can be used inline: `return log.Err(ctx, err, "doing thing")`.
func Err(ctx context.Context, err error, msg string) error {
	if err != nil {
		E(ctx, "%s: %v", msg, err)
	}
	return err
}
