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

package classify

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"

	"github.com/h1994st/rllvm/core/fault"
)

// MaxResponseFileDepth bounds @file nesting (spec.md §9 open question:
// "recommend a bounded depth ... with a diagnostic on exceedance").
const MaxResponseFileDepth = 8

// Expand rewrites argv, replacing every "@file" token with the
// shell-unquoted tokens read from that file, recursively, up to
// MaxResponseFileDepth. It is the only I/O-performing step in the
// classifier pipeline; Classify itself stays pure by requiring its caller
// to expand response files first.
func Expand(argv []string) ([]string, error) {
	return expand(argv, 0)
}

func expand(argv []string, depth int) ([]string, error) {
	if depth > MaxResponseFileDepth {
		return nil, errors.Wrapf(fault.InvalidArgs, "response files nested deeper than %d", MaxResponseFileDepth)
	}
	out := make([]string, 0, len(argv))
	for _, tok := range argv {
		if tok == "--" {
			out = append(out, tok)
			continue
		}
		if strings.HasPrefix(tok, "@") && len(tok) > 1 {
			data, err := ioutil.ReadFile(tok[1:])
			if err != nil {
				return nil, errors.Wrapf(fault.InvalidArgs, "reading response file %s: %v", tok[1:], err)
			}
			tokens, err := unquoteShellTokens(string(data))
			if err != nil {
				return nil, err
			}
			expanded, err := expand(tokens, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

// unquoteShellTokens splits response-file content on whitespace, honoring
// single and double quotes and backslash escapes, matching the shell-unquote
// rules spec.md §4.1 calls for.
func unquoteShellTokens(content string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote rune

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else if r == '\\' && quote == '"' && i+1 < len(runes) {
				i++
				cur.WriteRune(runes[i])
			} else {
				cur.WriteRune(r)
			}
			inToken = true
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == '\\' && i+1 < len(runes):
			i++
			cur.WriteRune(runes[i])
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, errors.Wrap(fault.InvalidArgs, "unterminated quote in response file")
	}
	flush()
	return tokens, nil
}
