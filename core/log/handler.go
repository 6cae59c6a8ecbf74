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
	"fmt"
	"io"
	"os"
	"sync"
)

// Handler receives formatted log messages.
type Handler interface {
	Handle(severity Severity, text string)
}

// WriterHandler writes "severity: text" lines to w, guarded by a mutex so
// concurrent loggers sharing one handler don't interleave partial lines.
type WriterHandler struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterHandler returns a Handler that writes to w.
func NewWriterHandler(w io.Writer) *WriterHandler {
	return &WriterHandler{w: w}
}

// Handle implements Handler.
func (h *WriterHandler) Handle(severity Severity, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "%s: %s\n", severity, text)
}

// Std is the process-default handler, writing to stderr.
var Std = NewWriterHandler(os.Stderr)
