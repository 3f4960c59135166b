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

// Package jcs serializes decoded JSON values into the canonical form of
// RFC 8785 (JSON Canonicalization Scheme). It is used to produce the
// lexical form of rdf:JSON literals.
package jcs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Canonicalize renders a decoded JSON value (nil, bool, float64,
// json.Number, string, []interface{} or map[string]interface{}) in JCS
// canonical form.
func Canonicalize(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendValue(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendValue(buf *bytes.Buffer, value interface{}) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		appendString(buf, v)
	case float64:
		formatted, err := NumberToJSON(v)
		if err != nil {
			return err
		}
		buf.WriteString(formatted)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return err
		}
		formatted, err := NumberToJSON(f)
		if err != nil {
			return err
		}
		buf.WriteString(formatted)
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		// property sorting is by UTF-16 code units, per RFC 8785 §3.2.3
		sort.Slice(keys, func(i, j int) bool {
			return lessUTF16(keys[i], keys[j])
		})
		buf.WriteByte('{')
		for i, key := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendString(buf, key)
			buf.WriteByte(':')
			if err := appendValue(buf, v[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jcs: unsupported value of type %T", value)
	}
	return nil
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

func appendString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else if r == utf8.RuneError {
				buf.WriteString(string(utf8.RuneError))
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

const invalidPattern uint64 = 0x7ff0000000000000

// NumberToJSON converts an IEEE-754 double into the number format
// specified for JSON in ECMAScript 6 and forward, as required by JCS.
func NumberToJSON(ieeeF64 float64) (string, error) {
	ieeeU64 := math.Float64bits(ieeeF64)

	// NaN and Infinity are invalid in JSON
	if (ieeeU64 & invalidPattern) == invalidPattern {
		return "null", errors.New("invalid JSON number: " + strconv.FormatUint(ieeeU64, 16))
	}

	// eliminate "-0" as mandated by the ES6/JCS specifications
	if ieeeF64 == 0 {
		return "0", nil
	}

	var sign string
	if ieeeF64 < 0 {
		ieeeF64 = -ieeeF64
		sign = "-"
	}

	// ES6 has a unique "g"-like format
	var format byte = 'e'
	if ieeeF64 < 1e+21 && ieeeF64 >= 1e-6 {
		format = 'f'
	}

	es6Formatted := strconv.FormatFloat(ieeeF64, format, -1, 64)
	if exponent := strings.IndexByte(es6Formatted, 'e'); exponent > 0 {
		// Go emits "1e+09", ES6 wants "1e+9"
		if es6Formatted[exponent+2] == '0' {
			es6Formatted = es6Formatted[:exponent+2] + es6Formatted[exponent+3:]
		}
	}
	return sign + es6Formatted, nil
}
