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
	"sort"
	"strings"
)

// Expand expands the given element according to the steps in the Expansion
// algorithm:
//
// https://www.w3.org/TR/json-ld11-api/#expansion-algorithm
//
// activeProperty is "" for a null active property. fromMap must be true
// when the element is a value of an @id, @index or @type map entry; it
// suppresses the restoration of a previous (type-scoped) context.
func (api *JsonLdApi) Expand(activeCtx *Context, activeProperty string, element interface{},
	opts *JsonLdOptions, fromMap bool) (interface{}, error) {

	// 1)
	if element == nil {
		return nil, nil
	}

	frameExpansion := opts.ProcessingMode == JsonLd_1_1_Frame
	if activeProperty == "@default" {
		frameExpansion = false
	}

	// the property-scoped context attached to the active property, if any
	propertyTd := activeCtx.GetTermDefinition(activeProperty)

	switch elem := element.(type) {
	case []interface{}:
		// 5)
		resultList := make([]interface{}, 0, len(elem))
		for _, item := range elem {
			// 5.2.1)
			v, err := api.Expand(activeCtx, activeProperty, item, opts, fromMap)
			if err != nil {
				return nil, err
			}
			// 5.2.2) a nested array under a list term becomes a nested list
			if activeCtx.HasContainerMapping(activeProperty, "@list") {
				if vList, isList := v.([]interface{}); isList {
					v = map[string]interface{}{"@list": vList}
				}
			}
			// 5.2.3)
			if v == nil {
				continue
			}
			if vList, isList := v.([]interface{}); isList {
				resultList = append(resultList, vList...)
			} else {
				resultList = append(resultList, v)
			}
		}
		// 5.3)
		return resultList, nil

	case map[string]interface{}:
		return api.expandMap(activeCtx, activeProperty, propertyTd, elem, opts, frameExpansion, fromMap)

	default:
		// 4) scalar
		// 4.1)
		if activeProperty == "" || activeProperty == "@graph" {
			return nil, nil
		}
		// 4.2)
		if propertyTd != nil && propertyTd.HasContext {
			newCtx, err := activeCtx.parse(propertyTd.Context, propertyTd.BaseURL, nil, true, true, true)
			if err != nil {
				return nil, err
			}
			activeCtx = newCtx
		}
		// 4.3)
		return activeCtx.ExpandValue(activeProperty, element)
	}
}

func (api *JsonLdApi) expandMap(activeCtx *Context, activeProperty string, propertyTd *TermDefinition,
	elem map[string]interface{}, opts *JsonLdOptions, frameExpansion, fromMap bool) (interface{}, error) {

	// 7) revert a type-scoped context unless the element carries @value or
	// is a lone subject reference
	if activeCtx.previousContext != nil && !fromMap {
		revert := true
		expandedKeys := make([]string, 0, len(elem))
		for _, key := range GetKeys(elem) {
			expandedKey, err := activeCtx.ExpandIri(key, false, true, nil, nil)
			if err != nil {
				return nil, err
			}
			expandedKeys = append(expandedKeys, expandedKey)
		}
		for _, expandedKey := range expandedKeys {
			if expandedKey == "@value" {
				revert = false
			}
		}
		if len(expandedKeys) == 1 && expandedKeys[0] == "@id" {
			revert = false
		}
		if revert {
			activeCtx = activeCtx.previousContext
		}
	}

	// 8) property-scoped context, overriding protected terms
	if propertyTd != nil && propertyTd.HasContext {
		newCtx, err := activeCtx.parse(propertyTd.Context, propertyTd.BaseURL, nil, true, true, true)
		if err != nil {
			return nil, err
		}
		activeCtx = newCtx
	}

	// 9)
	if ctx, hasContext := elem["@context"]; hasContext {
		newCtx, err := activeCtx.Parse(ctx)
		if err != nil {
			return nil, err
		}
		activeCtx = newCtx
	}

	// 10) snapshot before any type-scoped context is applied
	typeScopedCtx := activeCtx

	// 11) apply type-scoped contexts and resolve the input type from the
	// lexicographically first key expanding to @type
	inputType := ""
	typeKeyFound := false
	for _, key := range GetOrderedKeys(elem) {
		expandedKey, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		if expandedKey != "@type" {
			continue
		}

		types := make([]string, 0)
		for _, t := range Arrayify(elem[key]) {
			if typeStr, isString := t.(string); isString {
				types = append(types, typeStr)
			}
		}
		sort.Strings(types)
		for _, tt := range types {
			td := typeScopedCtx.GetTermDefinition(tt)
			if td != nil && td.HasContext {
				newCtx, err := activeCtx.parse(td.Context, td.BaseURL, nil, false, false, true)
				if err != nil {
					return nil, err
				}
				activeCtx = newCtx
			}
		}

		if !typeKeyFound && len(types) > 0 {
			typeKeyFound = true
			lastType := types[len(types)-1]
			if inputType, err = activeCtx.ExpandIri(lastType, false, true, nil, nil); err != nil {
				return nil, err
			}
		}
	}

	expandedActiveProperty := activeProperty
	if activeProperty != "" {
		var err error
		expandedActiveProperty, err = activeCtx.ExpandIri(activeProperty, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
	}

	resultMap := make(map[string]interface{})
	if err := api.expandObject(activeCtx, typeScopedCtx, activeProperty, expandedActiveProperty,
		elem, resultMap, inputType, opts, frameExpansion); err != nil {
		return nil, err
	}

	// 15) value object post-processing
	if rval, hasValue := resultMap["@value"]; hasValue {
		for key := range resultMap {
			switch key {
			case "@value", "@index", "@language", "@type", "@direction":
			default:
				return nil, NewJsonLdError(InvalidValueObject, "value object has unknown keys")
			}
		}
		_, hasLanguage := resultMap["@language"]
		_, hasDirection := resultMap["@direction"]
		typeValue, hasType := resultMap["@type"]
		if (hasLanguage || hasDirection) && hasType {
			return nil, NewJsonLdError(InvalidValueObject,
				"an element containing @value may not contain both @type and @language or @direction")
		}
		if typeValue != "@json" {
			// 15.3) with @json the value is an arbitrary JSON literal and
			// is not further validated
			rvalList, isList := rval.([]interface{})
			if rval == nil || (isList && len(rvalList) == 0) {
				return nil, nil
			}
			// 15.4)
			if hasLanguage {
				for _, v := range Arrayify(rval) {
					if _, isString := v.(string); !isString && !isEmptyObject(v) {
						return nil, NewJsonLdError(InvalidLanguageTaggedValue,
							"only strings may be language-tagged")
					}
				}
			} else if hasType {
				// 15.5)
				for _, v := range Arrayify(typeValue) {
					vStr, isString := v.(string)
					if !(isEmptyObject(v) ||
						(isString && IsAbsoluteIri(vStr) && !strings.HasPrefix(vStr, "_:"))) {
						return nil, NewJsonLdError(InvalidTypedValue,
							"@type of a value object must be an absolute IRI")
					}
				}
			}
		}
	} else if rtype, hasType := resultMap["@type"]; hasType {
		// 16)
		if _, isList := rtype.([]interface{}); !isList {
			resultMap["@type"] = []interface{}{rtype}
		}
	} else if rset, hasSet := resultMap["@set"]; hasSet {
		// 17)
		maxSize := 1
		if _, hasIndex := resultMap["@index"]; hasIndex {
			maxSize = 2
		}
		if len(resultMap) > maxSize {
			return nil, NewJsonLdError(InvalidSetOrListObject, "@set may only contain @index")
		}
		// @set is unwrapped
		return rset, nil
	} else if _, hasList := resultMap["@list"]; hasList {
		maxSize := 1
		if _, hasIndex := resultMap["@index"]; hasIndex {
			maxSize = 2
		}
		if len(resultMap) > maxSize {
			return nil, NewJsonLdError(InvalidSetOrListObject, "@list may only contain @index")
		}
	}

	// 18)
	if _, hasLanguage := resultMap["@language"]; hasLanguage && len(resultMap) == 1 {
		return nil, nil
	}

	// 19) drop free-floating values
	if activeProperty == "" || activeProperty == "@graph" {
		_, hasValue := resultMap["@value"]
		_, hasList := resultMap["@list"]
		_, hasID := resultMap["@id"]
		if len(resultMap) == 0 || hasValue || hasList {
			return nil, nil
		}
		if hasID && len(resultMap) == 1 && !frameExpansion {
			return nil, nil
		}
	}

	return resultMap, nil
}

func (api *JsonLdApi) expandObject(activeCtx, typeScopedCtx *Context, activeProperty, expandedActiveProperty string,
	elem map[string]interface{}, resultMap map[string]interface{}, inputType string,
	opts *JsonLdOptions, frameExpansion bool) error {

	// 12)
	nests := make([]string, 0)

	// 13)
	for _, key := range GetOrderedKeys(elem) {
		value := elem[key]
		// 13.1)
		if key == "@context" {
			continue
		}
		// 13.2)
		expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return err
		}
		// 13.3)
		if expandedProperty == "" ||
			(!strings.Contains(expandedProperty, ":") && !IsKeyword(expandedProperty)) {
			continue
		}

		if IsKeyword(expandedProperty) {
			if err := api.expandKeyword(activeCtx, typeScopedCtx, activeProperty, expandedActiveProperty,
				expandedProperty, key, value, resultMap, inputType, &nests, opts, frameExpansion); err != nil {
				return err
			}
			continue
		}

		// 13.10+) non-keyword keys
		td := activeCtx.GetTermDefinition(key)

		// a term-scoped context applies while expanding this key's value
		termCtx := activeCtx
		if td != nil && td.HasContext {
			termCtx, err = activeCtx.parse(td.Context, td.BaseURL, nil, true, true, true)
			if err != nil {
				return err
			}
		}

		var expandedValue interface{}
		valueMap, valueIsMap := value.(map[string]interface{})

		switch {
		case td != nil && td.TypeMapping == "@json":
			// 13.6) a JSON literal swallows the value as-is
			expandedValue = map[string]interface{}{
				"@value": value,
				"@type":  "@json",
			}
		case td.HasContainer("@language") && valueIsMap:
			// 13.7)
			expandedValue, err = api.expandLanguageMap(termCtx, key, valueMap)
			if err != nil {
				return err
			}
		case td.HasContainer("@index") && valueIsMap:
			// 13.8)
			asGraph := td.HasContainer("@graph")
			expandedValue, err = api.expandIndexMap(termCtx, key, valueMap, "@index", asGraph, opts, frameExpansion)
			if err != nil {
				return err
			}
		case td.HasContainer("@id") && valueIsMap:
			asGraph := td.HasContainer("@graph")
			expandedValue, err = api.expandIndexMap(termCtx, key, valueMap, "@id", asGraph, opts, frameExpansion)
			if err != nil {
				return err
			}
		case td.HasContainer("@type") && valueIsMap:
			expandedValue, err = api.expandIndexMap(termCtx, key, valueMap, "@type", false, opts, frameExpansion)
			if err != nil {
				return err
			}
		default:
			// 13.9)
			expandedValue, err = api.Expand(termCtx, key, value, opts, false)
			if err != nil {
				return err
			}
		}

		// 13.11)
		if expandedValue == nil {
			continue
		}
		// 13.12)
		if td.HasContainer("@list") && !IsList(expandedValue) {
			expandedValue = map[string]interface{}{
				"@list": Arrayify(expandedValue),
			}
		}

		// 13.13) graph containers wrap each entry into its own graph
		if td.HasContainer("@graph") && !td.HasContainer("@id") && !td.HasContainer("@index") {
			wrapped := make([]interface{}, 0)
			for _, ev := range Arrayify(expandedValue) {
				if !IsGraph(ev) {
					ev = map[string]interface{}{"@graph": Arrayify(ev)}
				}
				wrapped = append(wrapped, ev)
			}
			expandedValue = wrapped
		}

		// 13.14)
		if td != nil && td.Reverse {
			reverseMap, hasReverse := resultMap["@reverse"].(map[string]interface{})
			if !hasReverse {
				reverseMap = make(map[string]interface{})
				resultMap["@reverse"] = reverseMap
			}
			for _, item := range Arrayify(expandedValue) {
				if IsValue(item) || IsList(item) {
					return NewJsonLdError(InvalidReversePropertyValue, key)
				}
				MergeValue(reverseMap, expandedProperty, item)
			}
			continue
		}

		// 13.15)
		propertyList, _ := resultMap[expandedProperty].([]interface{})
		if evList, isList := expandedValue.([]interface{}); isList {
			propertyList = append(propertyList, evList...)
		} else {
			propertyList = append(propertyList, expandedValue)
		}
		resultMap[expandedProperty] = propertyList
	}

	// 14) process nested keys
	sort.Strings(nests)
	for _, nestKey := range nests {
		for _, nv := range Arrayify(elem[nestKey]) {
			nvMap, isMap := nv.(map[string]interface{})
			if !isMap {
				return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
			}
			for k := range nvMap {
				expandedKey, err := activeCtx.ExpandIri(k, false, true, nil, nil)
				if err != nil {
					return err
				}
				if expandedKey == "@value" {
					return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
				}
			}
			if err := api.expandObject(activeCtx, typeScopedCtx, activeProperty, expandedActiveProperty,
				nvMap, resultMap, inputType, opts, frameExpansion); err != nil {
				return err
			}
		}
	}

	return nil
}

//nolint:gocyclo
func (api *JsonLdApi) expandKeyword(activeCtx, typeScopedCtx *Context, activeProperty, expandedActiveProperty,
	expandedProperty, key string, value interface{}, resultMap map[string]interface{}, inputType string,
	nests *[]string, opts *JsonLdOptions, frameExpansion bool) error {

	// 13.4.1)
	if expandedActiveProperty == "@reverse" {
		return NewJsonLdError(InvalidReversePropertyMap,
			"a keyword cannot be used as a @reverse property")
	}
	// 13.4.2)
	if _, containsKey := resultMap[expandedProperty]; containsKey {
		if opts.ProcessingMode == JsonLd_1_0 ||
			(expandedProperty != "@included" && expandedProperty != "@type") {
			return NewJsonLdError(CollidingKeywords, expandedProperty+" already exists in result")
		}
	}

	var expandedValue interface{}
	var err error

	switch expandedProperty {
	case "@id":
		// 13.4.3)
		switch v := value.(type) {
		case string:
			expandedValue, err = activeCtx.ExpandIri(v, true, false, nil, nil)
			if err != nil {
				return err
			}
		case map[string]interface{}:
			if !frameExpansion {
				return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
			}
			if len(v) != 0 {
				return NewJsonLdError(InvalidIDValue, "@id value must be an empty object for framing")
			}
			expandedValue = []interface{}{v}
		case []interface{}:
			if !frameExpansion {
				return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
			}
			expandedIDs := make([]interface{}, 0, len(v))
			for _, id := range v {
				idStr, isString := id.(string)
				if !isString {
					return NewJsonLdError(InvalidIDValue,
						"@id value must be a string, an array of strings or an empty object")
				}
				expandedID, err := activeCtx.ExpandIri(idStr, true, false, nil, nil)
				if err != nil {
					return err
				}
				expandedIDs = append(expandedIDs, expandedID)
			}
			expandedValue = expandedIDs
		default:
			return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
		}

	case "@type":
		// 13.4.4) @type values expand against the type-scoped context
		switch v := value.(type) {
		case string:
			expandedValue, err = typeScopedCtx.ExpandIri(v, true, true, nil, nil)
			if err != nil {
				return err
			}
		case []interface{}:
			expandedTypes := make([]interface{}, 0, len(v))
			for _, t := range v {
				tStr, isString := t.(string)
				if !isString {
					return NewJsonLdError(InvalidTypeValue,
						"@type value must be a string or array of strings")
				}
				expandedType, err := typeScopedCtx.ExpandIri(tStr, true, true, nil, nil)
				if err != nil {
					return err
				}
				expandedTypes = append(expandedTypes, expandedType)
			}
			expandedValue = expandedTypes
		case map[string]interface{}:
			if !frameExpansion || len(v) != 0 {
				return NewJsonLdError(InvalidTypeValue, "@type value must be an empty object for framing")
			}
			expandedValue = v
		default:
			return NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
		}
		// 13.4.4.5) merge with a previously seen @type
		if existing, hasType := resultMap["@type"]; hasType {
			merged := Arrayify(existing)
			merged = append(merged, Arrayify(expandedValue)...)
			expandedValue = merged
		}

	case "@graph":
		// 13.4.5)
		expanded, err := api.Expand(activeCtx, "@graph", value, opts, false)
		if err != nil {
			return err
		}
		if expanded == nil {
			expanded = make([]interface{}, 0)
		}
		expandedValue = Arrayify(expanded)

	case "@included":
		// 13.4.6)
		if opts.ProcessingMode == JsonLd_1_0 {
			return nil
		}
		expanded, err := api.Expand(activeCtx, "", value, opts, false)
		if err != nil {
			return err
		}
		if expanded == nil {
			expanded = make([]interface{}, 0)
		}
		included := Arrayify(expanded)
		for _, item := range included {
			if !IsNodeObject(item) {
				return NewJsonLdError(InvalidIncludedValue, "values of @included must be node objects")
			}
		}
		if existing, hasIncluded := resultMap["@included"]; hasIncluded {
			included = append(Arrayify(existing), included...)
		}
		expandedValue = included

	case "@value":
		// 13.4.7)
		if inputType == "@json" && opts.ProcessingMode != JsonLd_1_0 {
			expandedValue = value
			resultMap["@value"] = expandedValue
			return nil
		}
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			if !frameExpansion {
				return NewJsonLdError(InvalidValueObjectValue,
					"value of @value must be a scalar or null")
			}
		}
		if value == nil {
			resultMap["@value"] = nil
			return nil
		}
		expandedValue = value

	case "@language":
		// 13.4.8)
		if vStr, isString := value.(string); isString {
			expandedValue = strings.ToLower(vStr)
		} else if frameExpansion {
			expandedValues := make([]interface{}, 0)
			for _, v := range Arrayify(value) {
				if vStr, isString := v.(string); isString {
					expandedValues = append(expandedValues, strings.ToLower(vStr))
				} else {
					expandedValues = append(expandedValues, v)
				}
			}
			expandedValue = expandedValues
		} else {
			return NewJsonLdError(InvalidLanguageTaggedString, "@language value must be a string")
		}

	case "@direction":
		// 13.4.9)
		if opts.ProcessingMode == JsonLd_1_0 {
			return nil
		}
		if vStr, isString := value.(string); isString && (vStr == "ltr" || vStr == "rtl") {
			expandedValue = vStr
		} else if frameExpansion {
			expandedValue = Arrayify(value)
		} else {
			return NewJsonLdError(InvalidBaseDirection, value)
		}

	case "@index":
		// 13.4.10)
		if _, isString := value.(string); !isString {
			return NewJsonLdError(InvalidIndexValue, "value of @index must be a string")
		}
		expandedValue = value

	case "@list":
		// 13.4.11)
		if expandedActiveProperty == "" || expandedActiveProperty == "@graph" {
			// free-floating lists are dropped
			return nil
		}
		expanded, err := api.Expand(activeCtx, activeProperty, value, opts, false)
		if err != nil {
			return err
		}
		if expanded == nil {
			expanded = make([]interface{}, 0)
		}
		expandedValue = Arrayify(expanded)

	case "@set":
		// 13.4.12)
		expandedValue, err = api.Expand(activeCtx, activeProperty, value, opts, false)
		if err != nil {
			return err
		}

	case "@reverse":
		// 13.4.13)
		if _, isMap := value.(map[string]interface{}); !isMap {
			return NewJsonLdError(InvalidReverseValue, "@reverse value must be an object")
		}
		expanded, err := api.Expand(activeCtx, "@reverse", value, opts, false)
		if err != nil {
			return err
		}
		expandedMap, isMap := expanded.(map[string]interface{})
		if !isMap {
			return nil
		}
		// 13.4.13.2) double reversal: move entries back to the result
		if reverseValue, containsReverse := expandedMap["@reverse"]; containsReverse {
			for property, item := range reverseValue.(map[string]interface{}) {
				propertyList, _ := resultMap[property].([]interface{})
				propertyList = append(propertyList, Arrayify(item)...)
				resultMap[property] = propertyList
			}
		}
		// 13.4.13.3)
		maxSize := 0
		if _, containsReverse := expandedMap["@reverse"]; containsReverse {
			maxSize = 1
		}
		if len(expandedMap) > maxSize {
			reverseMap, hasReverse := resultMap["@reverse"].(map[string]interface{})
			if !hasReverse {
				reverseMap = make(map[string]interface{})
				resultMap["@reverse"] = reverseMap
			}
			for property, items := range expandedMap {
				if property == "@reverse" {
					continue
				}
				for _, item := range items.([]interface{}) {
					if IsValue(item) || IsList(item) {
						return NewJsonLdError(InvalidReversePropertyValue, property)
					}
					MergeValue(reverseMap, property, item)
				}
			}
		}
		return nil

	case "@nest":
		// 13.4.14) collected and expanded after the main pass
		*nests = append(*nests, key)
		return nil

	case "@default":
		if !frameExpansion {
			return nil
		}
		expandedValue, err = api.Expand(activeCtx, "@default", value, opts, false)
		if err != nil {
			return err
		}

	case "@explicit", "@embed", "@requireAll", "@omitDefault", "@preserve":
		if !frameExpansion {
			return nil
		}
		expandedValue = []interface{}{value}
	}

	// 13.4.16)
	if expandedValue != nil {
		resultMap[expandedProperty] = expandedValue
	}
	return nil
}

// expandLanguageMap expands a value carried in an @language container.
func (api *JsonLdApi) expandLanguageMap(activeCtx *Context, activeProperty string,
	languageMap map[string]interface{}) (interface{}, error) {

	td := activeCtx.GetTermDefinition(activeProperty)
	direction := activeCtx.direction
	if td != nil && td.HasDirection {
		direction = td.DirectionMapping
	}

	rval := make([]interface{}, 0)
	for _, language := range GetOrderedKeys(languageMap) {
		expandedLanguage, err := activeCtx.ExpandIri(language, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		for _, item := range Arrayify(languageMap[language]) {
			if item == nil {
				continue
			}
			if _, isString := item.(string); !isString {
				return nil, NewJsonLdError(InvalidLanguageMapValue, item)
			}
			v := map[string]interface{}{
				"@value": item,
			}
			if expandedLanguage != "@none" {
				v["@language"] = strings.ToLower(language)
			}
			if direction != "" {
				v["@direction"] = direction
			}
			rval = append(rval, v)
		}
	}
	return rval, nil
}

// expandIndexMap expands a value carried in an @index, @id or @type
// container.
func (api *JsonLdApi) expandIndexMap(activeCtx *Context, activeProperty string, value map[string]interface{},
	indexKey string, asGraph bool, opts *JsonLdOptions, frameExpansion bool) (interface{}, error) {

	td := activeCtx.GetTermDefinition(activeProperty)

	rval := make([]interface{}, 0)
	for _, index := range GetOrderedKeys(value) {
		indexValue := value[index]

		// @id and @type maps re-enter the context that was active before a
		// type-scoped context was applied
		mapCtx := activeCtx
		if (indexKey == "@id" || indexKey == "@type") && activeCtx.previousContext != nil {
			mapCtx = activeCtx.previousContext
		}
		if indexKey == "@type" {
			if indexTd := mapCtx.GetTermDefinition(index); indexTd != nil && indexTd.HasContext {
				newCtx, err := mapCtx.parse(indexTd.Context, indexTd.BaseURL, nil, false, true, true)
				if err != nil {
					return nil, err
				}
				mapCtx = newCtx
			}
		}
		if indexKey == "@index" {
			mapCtx = activeCtx
		}

		expandedIndex, err := activeCtx.ExpandIri(index, false, true, nil, nil)
		if err != nil {
			return nil, err
		}

		expanded, err := api.Expand(mapCtx, activeProperty, Arrayify(indexValue), opts, true)
		if err != nil {
			return nil, err
		}

		for _, itemValue := range expanded.([]interface{}) {
			if asGraph && !IsGraph(itemValue) {
				itemValue = map[string]interface{}{
					"@graph": Arrayify(itemValue),
				}
			}
			item, isMap := itemValue.(map[string]interface{})
			if !isMap {
				continue
			}

			switch indexKey {
			case "@index":
				if td != nil && td.IndexMapping != "" {
					// property-valued index: the key becomes a value of the
					// index property
					if expandedIndex != "@none" {
						indexProperty, err := activeCtx.ExpandIri(td.IndexMapping, false, true, nil, nil)
						if err != nil {
							return nil, err
						}
						if IsValue(item) {
							return nil, NewJsonLdError(InvalidValueObject,
								"a value object may not carry a property-based index")
						}
						indexValueObj, err := mapCtx.ExpandValue(td.IndexMapping, index)
						if err != nil {
							return nil, err
						}
						existing, _ := item[indexProperty].([]interface{})
						item[indexProperty] = append([]interface{}{indexValueObj}, existing...)
					}
				} else if _, hasIndex := item["@index"]; !hasIndex && expandedIndex != "@none" {
					item["@index"] = index
				}
			case "@id":
				if _, hasID := item["@id"]; !hasID && expandedIndex != "@none" {
					expandedID, err := mapCtx.ExpandIri(index, true, false, nil, nil)
					if err != nil {
						return nil, err
					}
					item["@id"] = expandedID
				}
			case "@type":
				if expandedIndex != "@none" {
					types := []interface{}{expandedIndex}
					if existing, hasType := item["@type"]; hasType {
						types = append(types, Arrayify(existing)...)
					}
					item["@type"] = types
				}
			}

			rval = append(rval, item)
		}
	}
	return rval, nil
}
