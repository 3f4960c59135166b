// Copyright 2019-2024 Weavelink Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import "strings"

var keywords = map[string]bool{
	"@base":        true,
	"@container":   true,
	"@context":     true,
	"@default":     true,
	"@direction":   true,
	"@embed":       true,
	"@explicit":    true,
	"@graph":       true,
	"@id":          true,
	"@import":      true,
	"@included":    true,
	"@index":       true,
	"@json":        true,
	"@language":    true,
	"@list":        true,
	"@nest":        true,
	"@none":        true,
	"@omitDefault": true,
	"@prefix":      true,
	"@preserve":    true,
	"@propagate":   true,
	"@protected":   true,
	"@requireAll":  true,
	"@reverse":     true,
	"@set":         true,
	"@type":        true,
	"@value":       true,
	"@version":     true,
	"@vocab":       true,
	"@always":      true,
	"@never":       true,
	"@once":        true,
	"@any":         true,
	"@null":        true,
}

// IsKeyword returns true if the given value is one of the reserved
// JSON-LD keywords.
func IsKeyword(key interface{}) bool {
	keyStr, isString := key.(string)
	if !isString {
		return false
	}
	return keywords[keyStr]
}

// looksLikeKeyword returns true for values of the form "@"1*ALPHA that are
// not actual keywords. JSON-LD 1.1 reserves these for future use: terms and
// values of this shape are ignored with a warning rather than processed.
func looksLikeKeyword(value string) bool {
	if IsKeyword(value) || !strings.HasPrefix(value, "@") || len(value) == 1 {
		return false
	}
	for _, r := range value[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
