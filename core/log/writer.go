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

// lineWriter turns writes into per-line callbacks, for adapting a Logger
// into an io.WriteCloser (e.g. to capture a subprocess's stdout/stderr).
type lineWriter struct {
	emit func(string)
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := indexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
	return nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// Writer returns an io.WriteCloser that logs each line written to it at
// severity s.
func (l *Logger) Writer(s Severity) *writerCloser {
	return &writerCloser{l: l, s: s, lw: &lineWriter{}}
}

type writerCloser struct {
	l  *Logger
	s  Severity
	lw *lineWriter
}

func (w *writerCloser) Write(p []byte) (int, error) {
	if w.lw.emit == nil {
		w.lw.emit = func(line string) { w.l.log(w.s, "%s", line) }
	}
	return w.lw.Write(p)
}

func (w *writerCloser) Close() error {
	return w.lw.Close()
}
