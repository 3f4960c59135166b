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
	"strings"
)

// GenerateNodeMap recursively flattens the subjects of the given expanded
// JSON-LD element into a node map: graph name → subject id → node object.
//
// On completion, every value under any property of any node is a sequence
// of value objects, list objects, or {"@id": …} references.
//
// See https://www.w3.org/TR/json-ld11-api/#node-map-generation
func (api *JsonLdApi) GenerateNodeMap(element interface{}, nodeMap map[string]interface{},
	activeGraph string, issuer *IdentifierIssuer, activeSubject interface{}, activeProperty string,
	list []interface{}) ([]interface{}, error) {

	// 1)
	if elementList, isList := element.([]interface{}); isList {
		var err error
		for _, item := range elementList {
			if list, err = api.GenerateNodeMap(item, nodeMap, activeGraph, issuer, activeSubject,
				activeProperty, list); err != nil {
				return nil, err
			}
		}
		return list, nil
	}

	elem, isMap := element.(map[string]interface{})
	if !isMap {
		if list != nil {
			list = append(list, element)
		}
		return list, nil
	}

	graph := setDefault(nodeMap, activeGraph, make(map[string]interface{})).(map[string]interface{})

	// 3) value objects attach directly to the active property or list
	if IsValue(elem) {
		if typeVal, hasType := elem["@type"]; hasType {
			if typeStr, isString := typeVal.(string); isString && strings.HasPrefix(typeStr, "_:") {
				elem["@type"] = issuer.GetId(typeStr)
			}
		}
		if list != nil {
			list = append(list, elem)
		} else if subjectID, isString := activeSubject.(string); isString {
			node := graph[subjectID].(map[string]interface{})
			MergeValue(node, activeProperty, elem)
		}
		return list, nil
	}

	// 4) list objects accumulate into a fresh list
	if IsList(elem) {
		result := make([]interface{}, 0)
		flattenedList, err := api.GenerateNodeMap(elem["@list"], nodeMap, activeGraph, issuer,
			activeSubject, activeProperty, result)
		if err != nil {
			return nil, err
		}
		listObject := map[string]interface{}{"@list": flattenedList}
		if index, hasIndex := elem["@index"]; hasIndex {
			listObject["@index"] = index
		}
		if list != nil {
			list = append(list, listObject)
		} else if subjectID, isString := activeSubject.(string); isString {
			node := graph[subjectID].(map[string]interface{})
			MergeValue(node, activeProperty, listObject)
		}
		return list, nil
	}

	// 5) element is a node object

	// blank @type identifiers are relabelled before anything else
	if typeVal, hasType := elem["@type"]; hasType {
		for _, t := range Arrayify(typeVal) {
			if typeStr, isString := t.(string); isString && strings.HasPrefix(typeStr, "_:") {
				issuer.GetId(typeStr)
			}
		}
	}

	// 5.3)
	var id string
	if idVal, hasID := elem["@id"]; hasID {
		idStr, isString := idVal.(string)
		if !isString {
			return list, nil
		}
		if strings.HasPrefix(idStr, "_:") {
			id = issuer.GetId(idStr)
		} else {
			id = idStr
		}
	} else {
		id = issuer.GetId("")
	}

	// 5.4)
	node := setDefault(graph, id, map[string]interface{}{"@id": id}).(map[string]interface{})

	// 5.5) a map-valued active subject records a reverse edge onto this node
	if subjectMap, subjectIsMap := activeSubject.(map[string]interface{}); subjectIsMap {
		MergeValue(node, activeProperty, subjectMap)
	} else if activeProperty != "" {
		// 5.6)
		reference := map[string]interface{}{"@id": id}
		if list != nil {
			list = append(list, reference)
		} else {
			subjectNode := graph[activeSubject.(string)].(map[string]interface{})
			MergeValue(subjectNode, activeProperty, reference)
		}
	}

	// 5.7)
	if typeVal, hasType := elem["@type"]; hasType {
		for _, t := range Arrayify(typeVal) {
			typeStr, isString := t.(string)
			if !isString {
				continue
			}
			if strings.HasPrefix(typeStr, "_:") {
				typeStr = issuer.GetId(typeStr)
			}
			nodeTypes, _ := node["@type"].([]interface{})
			if !deepContains(nodeTypes, typeStr) {
				node["@type"] = append(nodeTypes, typeStr)
			}
		}
	}

	// 5.8)
	if index, hasIndex := elem["@index"]; hasIndex {
		if existing, nodeHasIndex := node["@index"]; nodeHasIndex && !DeepCompare(existing, index, true) {
			return nil, NewJsonLdError(ConflictingIndexes, id)
		}
		node["@index"] = index
	}

	// 5.9)
	if reverseVal, hasReverse := elem["@reverse"]; hasReverse {
		referencedNode := map[string]interface{}{"@id": id}
		reverseMap := reverseVal.(map[string]interface{})
		for _, reverseProperty := range GetOrderedKeys(reverseMap) {
			for _, item := range Arrayify(reverseMap[reverseProperty]) {
				if _, err := api.GenerateNodeMap(item, nodeMap, activeGraph, issuer,
					referencedNode, reverseProperty, nil); err != nil {
					return nil, err
				}
			}
		}
	}

	// 5.10)
	if graphVal, hasGraph := elem["@graph"]; hasGraph {
		if _, err := api.GenerateNodeMap(graphVal, nodeMap, id, issuer, nil, "", nil); err != nil {
			return nil, err
		}
	}

	// 5.11)
	if includedVal, hasIncluded := elem["@included"]; hasIncluded {
		if _, err := api.GenerateNodeMap(includedVal, nodeMap, activeGraph, issuer, nil, "", nil); err != nil {
			return nil, err
		}
	}

	// 5.12)
	for _, property := range GetOrderedKeys(elem) {
		switch property {
		case "@id", "@type", "@index", "@reverse", "@graph", "@included":
			continue
		}
		if IsKeyword(property) {
			node[property] = elem[property]
			continue
		}
		objects := elem[property]

		if strings.HasPrefix(property, "_:") {
			property = issuer.GetId(property)
		}

		if len(Arrayify(objects)) == 0 {
			if _, hasProperty := node[property]; !hasProperty {
				node[property] = make([]interface{}, 0)
			}
		}

		if _, err := api.GenerateNodeMap(objects, nodeMap, activeGraph, issuer, id, property, nil); err != nil {
			return nil, err
		}
	}

	return list, nil
}

func setDefault(m map[string]interface{}, key string, val interface{}) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	m[key] = val
	return val
}
