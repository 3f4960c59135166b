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

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// IsAbsoluteIri returns true if the given value is an absolute IRI or a
// blank node identifier, false if not.
func IsAbsoluteIri(value string) bool {
	if strings.HasPrefix(value, "_:") {
		return true
	}

	u, err := url.Parse(value)
	return err == nil && u.IsAbs()
}

// IsRelativeIri returns true if the given value is a relative IRI, false if
// not.
func IsRelativeIri(value string) bool {
	return !(IsKeyword(value) || IsAbsoluteIri(value))
}

// endsInGenDelim reports whether the IRI ends in an RFC 3987 gen-delim
// character, which is what makes a simple term definition usable as a
// prefix.
func endsInGenDelim(iri string) bool {
	if iri == "" {
		return false
	}
	switch iri[len(iri)-1] {
	case ':', '/', '?', '#', '[', ']', '@':
		return true
	}
	return false
}

// IsValue returns true if the given value is a JSON-LD value object.
func IsValue(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsValue := vMap["@value"]
	return isMap && containsValue
}

// IsList returns true if the given value is a JSON-LD list object.
func IsList(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, hasList := vMap["@list"]
	return isMap && hasList
}

// IsGraph returns true if the given value is a graph object: a map with
// @graph and at most @id and @index besides.
func IsGraph(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	_, containsGraph := vMap["@graph"]
	if !containsGraph {
		return false
	}
	for k := range vMap {
		if k != "@id" && k != "@index" && k != "@graph" {
			return false
		}
	}
	return true
}

// IsSimpleGraph returns true if the given value is a graph object without
// an @id.
func IsSimpleGraph(v interface{}) bool {
	vMap, _ := v.(map[string]interface{})
	_, containsID := vMap["@id"]
	return IsGraph(v) && !containsID
}

// IsNodeObject returns true if the given value is a node object: a map that
// is neither a value, list nor set object.
func IsNodeObject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	_, containsValue := vMap["@value"]
	_, containsList := vMap["@list"]
	_, containsSet := vMap["@set"]
	return !containsValue && !containsList && !containsSet
}

// IsSubject returns true if the given value is a node object with
// properties beyond a lone @id.
func IsSubject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap || !IsNodeObject(v) {
		return false
	}
	_, containsID := vMap["@id"]
	return len(vMap) > 1 || !containsID
}

// IsSubjectReference returns true if the given value is a map with a single
// key, @id.
func IsSubjectReference(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsID := vMap["@id"]
	return isMap && len(vMap) == 1 && containsID
}

// IsBlankNodeValue returns true if the given value is a node object whose
// identifier is (or will be) a blank node identifier.
func IsBlankNodeValue(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	if id, containsID := vMap["@id"]; containsID {
		idStr, isString := id.(string)
		return isString && strings.HasPrefix(idStr, "_:")
	}
	return IsNodeObject(v)
}

func isEmptyObject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	return isMap && len(vMap) == 0
}

// Arrayify returns v if v is an array, otherwise returns an array
// containing v as the only element.
func Arrayify(v interface{}) []interface{} {
	if av, isArray := v.([]interface{}); isArray {
		return av
	}
	return []interface{}{v}
}

// DeepCompare returns true if v1 equals v2 structurally.
func DeepCompare(v1 interface{}, v2 interface{}, listOrderMatters bool) bool {
	if v1 == nil || v2 == nil {
		return v1 == nil && v2 == nil
	}

	m1, isMap1 := v1.(map[string]interface{})
	m2, isMap2 := v2.(map[string]interface{})
	l1, isList1 := v1.([]interface{})
	l2, isList2 := v2.([]interface{})
	switch {
	case isMap1 && isMap2:
		if len(m1) != len(m2) {
			return false
		}
		for key, val1 := range m1 {
			val2, present := m2[key]
			if !present || !DeepCompare(val1, val2, listOrderMatters) {
				return false
			}
		}
		return true
	case isList1 && isList2:
		if len(l1) != len(l2) {
			return false
		}
		alreadyMatched := make([]bool, len(l2))
		for i := 0; i < len(l1); i++ {
			gotMatch := false
			if listOrderMatters {
				gotMatch = DeepCompare(l1[i], l2[i], listOrderMatters)
			} else {
				for j := 0; j < len(l2); j++ {
					if !alreadyMatched[j] && DeepCompare(l1[i], l2[j], listOrderMatters) {
						alreadyMatched[j] = true
						gotMatch = true
						break
					}
				}
			}
			if !gotMatch {
				return false
			}
		}
		return true
	default:
		if v1 != v2 {
			// numbers may surface either as float64 or json.Number depending
			// on how the document was decoded
			return normalizeNumber(v1) == normalizeNumber(v2)
		}
		return true
	}
}

func normalizeNumber(v interface{}) string {
	floatVal, isFloat := v.(float64)
	if !isFloat {
		if number, isNumber := v.(json.Number); isNumber {
			if f, err := number.Float64(); err == nil {
				floatVal, isFloat = f, true
			}
		}
	}
	if isFloat {
		return fmt.Sprintf("%f", floatVal)
	}
	return fmt.Sprintf("%v", v)
}

func deepContains(values []interface{}, value interface{}) bool {
	for _, item := range values {
		if DeepCompare(item, value, false) {
			return true
		}
	}
	return false
}

// MergeValue appends a value to the sequence under the given key, skipping
// structural duplicates (list objects are always appended).
func MergeValue(obj map[string]interface{}, key string, value interface{}) {
	if obj == nil {
		return
	}
	values, _ := obj[key].([]interface{})
	if key == "@list" || IsList(value) || !deepContains(values, value) {
		values = append(values, value)
	}
	obj[key] = values
}

// CloneDocument returns a deep copy of the given JSON value.
func CloneDocument(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(v))
		for k, item := range v {
			clone[k] = CloneDocument(item)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, 0, len(v))
		for _, item := range v {
			clone = append(clone, CloneDocument(item))
		}
		return clone
	default:
		return value
	}
}

// GetKeys returns all keys in the given object in map order.
func GetKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// GetOrderedKeys returns all keys in the given object as a sorted list.
func GetOrderedKeys(m map[string]interface{}) []string {
	keys := GetKeys(m)
	sort.Strings(keys)
	return keys
}
