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
	"os"
	"strings"
)

// Env represents a process environment as an ordered set of "KEY=value"
// strings, preserving insertion order for deterministic Vars() output.
type Env struct {
	keys   []string
	values map[string]string
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{values: map[string]string{}}
}

// CloneEnv returns an Env seeded from the current process environment.
func CloneEnv() *Env {
	e := NewEnv()
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			e.Set(k, v)
		}
	}
	return e
}

// Set sets key to value, returning e for chaining.
func (e *Env) Set(key, value string) *Env {
	if e.values == nil {
		e.values = map[string]string{}
	}
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
	return e
}

// Get returns the value of key and whether it was set.
func (e *Env) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

// Vars returns the environment as a "KEY=value" slice suitable for
// exec.Cmd.Env. A nil Env returns nil, meaning "inherit the process
// environment" to os/exec.
func (e *Env) Vars() []string {
	if e == nil {
		return nil
	}
	vars := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		vars = append(vars, k+"="+e.values[k])
	}
	return vars
}
