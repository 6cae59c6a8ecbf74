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

// Package fault provides constant, comparable error values for the error
// taxonomy named in spec.md §7.
package fault

// Const is the type for constant, comparable error values. Unlike errors
// built with fmt.Errorf, a Const survives across package boundaries and
// compares equal with == or errors.Is.
type Const string

// Error implements error.
func (e Const) Error() string { return string(e) }

// From converts an arbitrary value to an error safely: nil stays nil,
// an error passes through unchanged, anything else becomes InvalidErrorType.
func From(value interface{}) error {
	switch err := value.(type) {
	case nil:
		return nil
	case error:
		return err
	default:
		return InvalidErrorType
	}
}

// InvalidErrorType is returned by From when value does not implement error.
const InvalidErrorType = Const("invalid type for error")
