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
	"fmt"
	"strings"
)

// Context represents an active JSON-LD context: the term definitions, base
// IRI, vocabulary mapping and language/direction defaults in effect at a
// point in the algorithms.
//
// Contexts are values. Every operation that changes a context returns a new
// one; term definitions are shared between copies and never mutated after
// creation.
type Context struct {
	options *JsonLdOptions

	base            string
	originalBaseURL string
	vocab           string
	language        string
	direction       string

	terms map[string]*TermDefinition

	// previousContext holds the context to restore when a non-propagating
	// (typically type-scoped) context goes out of scope.
	previousContext *Context
}

// NewContext creates a fresh active context from the given options.
func NewContext(options *JsonLdOptions) *Context {
	if options == nil {
		options = NewJsonLdOptions("")
	}

	return &Context{
		options:         options,
		base:            options.Base,
		originalBaseURL: options.Base,
		terms:           make(map[string]*TermDefinition),
	}
}

// CopyContext creates a copy of the given context. Term definitions are
// shared: they are immutable once created.
func CopyContext(ctx *Context) *Context {
	clone := &Context{
		options:         ctx.options,
		base:            ctx.base,
		originalBaseURL: ctx.originalBaseURL,
		vocab:           ctx.vocab,
		language:        ctx.language,
		direction:       ctx.direction,
		terms:           make(map[string]*TermDefinition, len(ctx.terms)),
		previousContext: ctx.previousContext,
	}
	for term, def := range ctx.terms {
		clone.terms[term] = def
	}
	return clone
}

func (c *Context) processingMode10() bool {
	return c.options != nil && c.options.ProcessingMode == JsonLd_1_0
}

func (c *Context) hasProtectedTerms() bool {
	for _, def := range c.terms {
		if def != nil && def.Protected {
			return true
		}
	}
	return false
}

// Parse processes a local context against this active context, retrieving
// remote contexts as necessary, and returns the new active context.
// See https://www.w3.org/TR/json-ld11-api/#context-processing-algorithm
func (c *Context) Parse(localContext interface{}) (*Context, error) {
	return c.parse(localContext, c.originalBaseURL, nil, false, true, true)
}

func (c *Context) parse(localContext interface{}, baseURL string, remoteContexts []string,
	overrideProtected, propagate, validateScoped bool) (*Context, error) {

	// 1)
	result := CopyContext(c)

	// 2)
	if ctxMap, isMap := localContext.(map[string]interface{}); isMap {
		if propagateValue, hasPropagate := ctxMap["@propagate"]; hasPropagate {
			propagateBool, isBool := propagateValue.(bool)
			if !isBool {
				return nil, NewJsonLdError(InvalidPropagateValue, propagateValue)
			}
			propagate = propagateBool
		}
	}

	// 3)
	if !propagate && result.previousContext == nil {
		result.previousContext = c
	}

	// 4)
	for _, context := range Arrayify(localContext) {
		// 5.1)
		if context == nil {
			if !overrideProtected && result.hasProtectedTerms() {
				return nil, NewJsonLdError(InvalidContextNullification,
					"tried to nullify a context with protected terms")
			}
			previous := result
			result = NewContext(c.options)
			if !propagate {
				result.previousContext = previous
			}
			continue
		}

		var contextMap map[string]interface{}

		switch ctx := context.(type) {
		case *Context:
			result = CopyContext(ctx)
			continue
		// 5.2)
		case string:
			uri := Resolve(baseURL, ctx)
			if len(remoteContexts) >= c.options.maxRemoteContexts() {
				return nil, NewJsonLdError(ContextOverflow, uri)
			}
			for _, remoteCtx := range remoteContexts {
				if remoteCtx == uri {
					return nil, NewJsonLdError(RecursiveContextInclusion, uri)
				}
			}
			remoteContexts = append(remoteContexts, uri)

			rd, err := c.options.DocumentLoader.LoadDocument(uri)
			if err != nil {
				return nil, NewJsonLdError(LoadingRemoteContextFailed, err)
			}
			remoteContextMap, isMap := rd.Document.(map[string]interface{})
			remoteContext, hasContextKey := remoteContextMap["@context"]
			if !isMap || !hasContextKey {
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}

			remoteBase := rd.DocumentURL
			if remoteBase == "" {
				remoteBase = uri
			}
			result, err = result.parse(remoteContext, remoteBase, remoteContexts, false, true, validateScoped)
			if err != nil {
				return nil, err
			}
			continue
		case map[string]interface{}:
			contextMap = ctx
		default:
			// 5.3)
			return nil, NewJsonLdError(InvalidLocalContext, context)
		}

		// 5.5)
		if versionValue, hasVersion := contextMap["@version"]; hasVersion {
			if fmt.Sprintf("%v", versionValue) != "1.1" {
				return nil, NewJsonLdError(InvalidVersionValue, versionValue)
			}
			if c.processingMode10() {
				return nil, NewJsonLdError(ProcessingModeConflict, versionValue)
			}
		}

		// 5.6)
		if importValue, hasImport := contextMap["@import"]; hasImport {
			if c.processingMode10() {
				return nil, NewJsonLdError(InvalidContextEntry, "@import is not allowed in JSON-LD 1.0")
			}
			importStr, isString := importValue.(string)
			if !isString {
				return nil, NewJsonLdError(InvalidImportValue, importValue)
			}
			uri := Resolve(baseURL, importStr)
			rd, err := c.options.DocumentLoader.LoadDocument(uri)
			if err != nil {
				return nil, NewJsonLdError(LoadingRemoteContextFailed, err)
			}
			importMap, isMap := rd.Document.(map[string]interface{})
			importedContext, hasContextKey := importMap["@context"]
			importedMap, contextIsMap := importedContext.(map[string]interface{})
			if !isMap || !hasContextKey || !contextIsMap {
				return nil, NewJsonLdError(InvalidRemoteContext, uri)
			}
			if _, hasNestedImport := importedMap["@import"]; hasNestedImport {
				return nil, NewJsonLdError(InvalidContextEntry, "@import must not be nested")
			}

			// the importing context overrides the imported one
			merged := make(map[string]interface{}, len(importedMap)+len(contextMap))
			for k, v := range importedMap {
				merged[k] = v
			}
			for k, v := range contextMap {
				if k == "@import" {
					continue
				}
				merged[k] = v
			}
			contextMap = merged
		}

		// 5.7) @base is only honored in the document's own context
		if baseValue, basePresent := contextMap["@base"]; basePresent && len(remoteContexts) == 0 {
			if baseValue == nil {
				result.base = ""
			} else if baseString, isString := baseValue.(string); isString {
				switch {
				case IsAbsoluteIri(baseString):
					result.base = baseString
				case result.base != "":
					result.base = Resolve(result.base, baseString)
				default:
					return nil, NewJsonLdError(InvalidBaseIRI, baseString)
				}
			} else {
				return nil, NewJsonLdError(InvalidBaseIRI, "@base must be a string")
			}
		}

		// 5.8)
		if vocabValue, vocabPresent := contextMap["@vocab"]; vocabPresent {
			if vocabValue == nil {
				result.vocab = ""
			} else if vocabString, isString := vocabValue.(string); isString {
				expanded, err := result.ExpandIri(vocabString, true, true, nil, nil)
				if err != nil {
					return nil, NewJsonLdError(InvalidVocabMapping, vocabString)
				}
				if !IsAbsoluteIri(expanded) && expanded != "" {
					return nil, NewJsonLdError(InvalidVocabMapping,
						"@vocab must be an absolute IRI or a blank node identifier")
				}
				result.vocab = expanded
			} else {
				return nil, NewJsonLdError(InvalidVocabMapping, "@vocab must be a string or null")
			}
		}

		// 5.9)
		if languageValue, languagePresent := contextMap["@language"]; languagePresent {
			if languageValue == nil {
				result.language = ""
			} else if languageString, isString := languageValue.(string); isString {
				result.language = strings.ToLower(languageString)
			} else {
				return nil, NewJsonLdError(InvalidDefaultLanguage, languageValue)
			}
		}

		// 5.10)
		if directionValue, directionPresent := contextMap["@direction"]; directionPresent {
			if c.processingMode10() {
				return nil, NewJsonLdError(InvalidContextEntry, "@direction is not allowed in JSON-LD 1.0")
			}
			if directionValue == nil {
				result.direction = ""
			} else if directionString, isString := directionValue.(string); isString &&
				(directionString == "ltr" || directionString == "rtl") {
				result.direction = directionString
			} else {
				return nil, NewJsonLdError(InvalidBaseDirection, directionValue)
			}
		}

		// 5.11)
		if propagateValue, hasPropagate := contextMap["@propagate"]; hasPropagate {
			if c.processingMode10() {
				return nil, NewJsonLdError(InvalidContextEntry, "@propagate is not allowed in JSON-LD 1.0")
			}
			if _, isBool := propagateValue.(bool); !isBool {
				return nil, NewJsonLdError(InvalidPropagateValue, propagateValue)
			}
		}

		// 5.12)
		protectedDefault := false
		if protectedValue, hasProtected := contextMap["@protected"]; hasProtected {
			if c.processingMode10() {
				return nil, NewJsonLdError(InvalidContextEntry, "@protected is not allowed in JSON-LD 1.0")
			}
			protectedBool, isBool := protectedValue.(bool)
			if !isBool {
				return nil, NewJsonLdError(InvalidProtectedValue, protectedValue)
			}
			protectedDefault = protectedBool
		}

		// 5.13)
		defined := make(map[string]bool)
		for _, key := range GetOrderedKeys(contextMap) {
			switch key {
			case "@base", "@vocab", "@language", "@direction", "@version", "@import", "@propagate", "@protected":
				continue
			}
			err := result.createTermDefinition(contextMap, key, defined,
				protectedDefault, overrideProtected, baseURL, remoteContexts, validateScoped)
			if err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// createTermDefinition creates a term definition in the active context for
// a term being processed in a local context.
// See https://www.w3.org/TR/json-ld11-api/#create-term-definition
func (c *Context) createTermDefinition(context map[string]interface{}, term string,
	defined map[string]bool, protectedDefault, overrideProtected bool,
	baseURL string, remoteContexts []string, validateScoped bool) error {

	// 1)
	if definedValue, inDefined := defined[term]; inDefined {
		if definedValue {
			return nil
		}
		return NewJsonLdError(CyclicIRIMapping, term)
	}

	// 2)
	if term == "" {
		return NewJsonLdError(InvalidTermDefinition, term)
	}
	defined[term] = false

	value := context[term]
	valueMap, valueIsMap := value.(map[string]interface{})

	// 4) in JSON-LD 1.1, @type may be redefined to set a @set container
	if term == "@type" {
		if c.processingMode10() {
			return NewJsonLdError(KeywordRedefinition, term)
		}
		if !valueIsMap {
			return NewJsonLdError(KeywordRedefinition, term)
		}
		for key, v := range valueMap {
			switch key {
			case "@container":
				if v != "@set" {
					return NewJsonLdError(KeywordRedefinition, term)
				}
			case "@protected":
			default:
				return NewJsonLdError(KeywordRedefinition, term)
			}
		}
	} else if IsKeyword(term) {
		// 5)
		return NewJsonLdError(KeywordRedefinition, term)
	} else if looksLikeKeyword(term) {
		defined[term] = true
		return nil
	}

	// 6)
	previousDefinition, hadPrevious := c.terms[term]
	delete(c.terms, term)

	// 7) null definitions block vocab expansion for the term
	idValue, hasID := valueMap["@id"]
	if value == nil || (valueIsMap && hasID && idValue == nil) {
		if hadPrevious && previousDefinition != nil && previousDefinition.Protected && !overrideProtected {
			c.terms[term] = previousDefinition
			return NewJsonLdError(ProtectedTermRedefinition, term)
		}
		c.terms[term] = nil
		defined[term] = true
		return nil
	}

	// 8)
	simpleTerm := false
	if _, isString := value.(string); isString {
		valueMap = map[string]interface{}{"@id": value}
		valueIsMap = true
		idValue = value
		hasID = true
		simpleTerm = true
	}
	if !valueIsMap {
		return NewJsonLdError(InvalidTermDefinition, value)
	}

	// 10)
	definition := &TermDefinition{Protected: protectedDefault}

	// 11)
	if protectedValue, hasProtected := valueMap["@protected"]; hasProtected {
		if c.processingMode10() {
			return NewJsonLdError(InvalidTermDefinition, "@protected is not allowed in JSON-LD 1.0")
		}
		protectedBool, isBool := protectedValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidProtectedValue, protectedValue)
		}
		definition.Protected = protectedBool
	}

	// 12)
	if typeValue, hasType := valueMap["@type"]; hasType {
		typeStr, isString := typeValue.(string)
		if !isString {
			return NewJsonLdError(InvalidTypeMapping, typeValue)
		}
		typeIri, err := c.ExpandIri(typeStr, false, true, context, defined)
		if err != nil {
			if jsonLdErr, isJsonLdErr := err.(*JsonLdError); !isJsonLdErr || jsonLdErr.Code != InvalidIRIMapping {
				return err
			}
			return NewJsonLdError(InvalidTypeMapping, typeStr)
		}
		switch typeIri {
		case "@json", "@none":
			if c.processingMode10() {
				return NewJsonLdError(InvalidTypeMapping, typeIri)
			}
		case "@id", "@vocab":
		default:
			if strings.HasPrefix(typeIri, "_:") || !IsAbsoluteIri(typeIri) {
				return NewJsonLdError(InvalidTypeMapping, typeIri)
			}
		}
		definition.TypeMapping = typeIri
	}

	// 13)
	if reverseValue, hasReverse := valueMap["@reverse"]; hasReverse {
		if hasID {
			return NewJsonLdError(InvalidReverseProperty, valueMap)
		}
		if _, hasNest := valueMap["@nest"]; hasNest {
			return NewJsonLdError(InvalidReverseProperty, valueMap)
		}
		reverseStr, isString := reverseValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping,
				fmt.Sprintf("expected string for @reverse value, got %v", reverseValue))
		}
		if looksLikeKeyword(reverseStr) {
			defined[term] = true
			return nil
		}
		reverse, err := c.ExpandIri(reverseStr, false, true, context, defined)
		if err != nil {
			return err
		}
		if !IsAbsoluteIri(reverse) {
			return NewJsonLdError(InvalidIRIMapping, "non-absolute @reverse IRI: "+reverse)
		}
		definition.IRI = reverse

		if containerValue, hasContainer := valueMap["@container"]; hasContainer {
			if containerValue == nil {
				definition.Container = nil
			} else if container, isString := containerValue.(string); isString &&
				(container == "@set" || container == "@index") {
				definition.Container = []string{container}
			} else {
				return NewJsonLdError(InvalidReverseProperty,
					"reverse properties only support set- and index-containers")
			}
		}
		definition.Reverse = true
		return c.commitTermDefinition(term, definition, previousDefinition, hadPrevious, overrideProtected, defined)
	}

	switch {
	// 14)
	case hasID && idValue != term:
		idStr, isString := idValue.(string)
		if !isString {
			return NewJsonLdError(InvalidIRIMapping, "expected value of @id to be a string")
		}
		if !IsKeyword(idStr) && looksLikeKeyword(idStr) {
			defined[term] = true
			return nil
		}
		res, err := c.ExpandIri(idStr, false, true, context, defined)
		if err != nil {
			return err
		}
		if !IsKeyword(res) && !IsAbsoluteIri(res) {
			return NewJsonLdError(InvalidIRIMapping,
				"resulting IRI mapping should be a keyword, absolute IRI or blank node")
		}
		if res == "@context" {
			return NewJsonLdError(InvalidKeywordAlias, "cannot alias @context")
		}
		definition.IRI = res

		if strings.Contains(term[1:], ":") || strings.Contains(term, "/") {
			// the term itself must round-trip to the same IRI
			defined[term] = true
			termIri, err := c.ExpandIri(term, false, true, context, defined)
			if err != nil {
				return NewJsonLdError(InvalidIRIMapping, term)
			}
			if termIri != res {
				return NewJsonLdError(InvalidIRIMapping, term)
			}
		} else if simpleTerm && (strings.HasPrefix(res, "_:") || endsInGenDelim(res)) {
			definition.Prefix = true
		}

	// 15)
	case strings.Contains(term[1:], ":"):
		colIndex := strings.Index(term[1:], ":") + 1
		prefix := term[0:colIndex]
		suffix := term[colIndex+1:]
		if !strings.HasPrefix(suffix, "//") {
			if _, containsPrefix := context[prefix]; containsPrefix {
				if err := c.createTermDefinition(context, prefix, defined,
					protectedDefault, overrideProtected, baseURL, remoteContexts, validateScoped); err != nil {
					return err
				}
			}
		}
		if prefixDef, hasPrefixDef := c.terms[prefix]; hasPrefixDef && prefixDef != nil {
			definition.IRI = prefixDef.IRI + suffix
		} else {
			definition.IRI = term
		}

	// 16)
	case strings.Contains(term, "/"):
		termIri, err := c.ExpandIri(term, false, true, nil, nil)
		if err != nil {
			return NewJsonLdError(InvalidIRIMapping, term)
		}
		if !IsAbsoluteIri(termIri) {
			return NewJsonLdError(InvalidIRIMapping, term)
		}
		definition.IRI = termIri

	// 17)
	case term == "@type":
		definition.IRI = "@type"

	// 18)
	case c.vocab != "":
		definition.IRI = c.vocab + term

	default:
		return NewJsonLdError(InvalidIRIMapping,
			"relative term definition without vocab mapping")
	}

	// 19)
	if containerValue, hasContainer := valueMap["@container"]; hasContainer {
		container, err := c.validateContainer(containerValue)
		if err != nil {
			return err
		}
		definition.Container = container
		if definition.HasContainer("@type") {
			switch definition.TypeMapping {
			case "":
				definition.TypeMapping = "@id"
			case "@id", "@vocab":
			default:
				return NewJsonLdError(InvalidTypeMapping, definition.TypeMapping)
			}
		}
	}

	// 20)
	if indexValue, hasIndex := valueMap["@index"]; hasIndex {
		if c.processingMode10() || !definition.HasContainer("@index") {
			return NewJsonLdError(InvalidTermDefinition, "@index without an @index container")
		}
		indexStr, isString := indexValue.(string)
		if !isString {
			return NewJsonLdError(InvalidTermDefinition, indexValue)
		}
		expandedIndex, err := c.ExpandIri(indexStr, false, true, nil, nil)
		if err != nil || !IsAbsoluteIri(expandedIndex) {
			return NewJsonLdError(InvalidTermDefinition, indexStr)
		}
		definition.IndexMapping = indexStr
	}

	// 21)
	if scopedContext, hasContext := valueMap["@context"]; hasContext {
		if c.processingMode10() {
			return NewJsonLdError(InvalidTermDefinition, "term-scoped contexts are not allowed in JSON-LD 1.0")
		}
		if validateScoped {
			if _, err := c.parse(scopedContext, baseURL, remoteContexts, true, true, false); err != nil {
				return NewJsonLdError(InvalidScopedContext, err)
			}
		}
		definition.Context = scopedContext
		definition.HasContext = true
		definition.BaseURL = baseURL
	}

	// 22)
	_, hasType := valueMap["@type"]
	if languageValue, hasLanguage := valueMap["@language"]; hasLanguage && !hasType {
		if language, isString := languageValue.(string); isString {
			definition.LanguageMapping = strings.ToLower(language)
			definition.HasLanguage = true
		} else if languageValue == nil {
			definition.HasLanguage = true
		} else {
			return NewJsonLdError(InvalidLanguageMapping, "@language must be a string or null")
		}
	}

	// 23)
	if directionValue, hasDirection := valueMap["@direction"]; hasDirection && !hasType {
		if direction, isString := directionValue.(string); isString &&
			(direction == "ltr" || direction == "rtl") {
			definition.DirectionMapping = direction
			definition.HasDirection = true
		} else if directionValue == nil {
			definition.HasDirection = true
		} else {
			return NewJsonLdError(InvalidBaseDirection, directionValue)
		}
	}

	// 24)
	if nestValue, hasNest := valueMap["@nest"]; hasNest {
		if c.processingMode10() {
			return NewJsonLdError(InvalidTermDefinition, "@nest is not allowed in JSON-LD 1.0")
		}
		nestStr, isString := nestValue.(string)
		if !isString || (IsKeyword(nestStr) && nestStr != "@nest") {
			return NewJsonLdError(InvalidNestValue, nestValue)
		}
		definition.Nest = nestStr
	}

	// 25)
	if prefixValue, hasPrefix := valueMap["@prefix"]; hasPrefix {
		if c.processingMode10() || strings.Contains(term, ":") || strings.Contains(term, "/") {
			return NewJsonLdError(InvalidTermDefinition, "@prefix is not allowed here")
		}
		prefixBool, isBool := prefixValue.(bool)
		if !isBool {
			return NewJsonLdError(InvalidPrefixValue, prefixValue)
		}
		if prefixBool && IsKeyword(definition.IRI) {
			return NewJsonLdError(InvalidTermDefinition, "keywords may not be used as prefixes")
		}
		definition.Prefix = prefixBool
	}

	// 26)
	for key := range valueMap {
		switch key {
		case "@id", "@reverse", "@container", "@context", "@language", "@direction",
			"@type", "@nest", "@prefix", "@index", "@protected":
		default:
			return NewJsonLdError(InvalidTermDefinition, "unknown term definition key: "+key)
		}
	}

	return c.commitTermDefinition(term, definition, previousDefinition, hadPrevious, overrideProtected, defined)
}

// commitTermDefinition applies the protected-redefinition rule and stores
// the definition.
func (c *Context) commitTermDefinition(term string, definition, previousDefinition *TermDefinition,
	hadPrevious, overrideProtected bool, defined map[string]bool) error {

	// 27)
	if hadPrevious && previousDefinition != nil && previousDefinition.Protected && !overrideProtected {
		if !previousDefinition.sameExceptProtected(definition) {
			c.terms[term] = previousDefinition
			return NewJsonLdError(ProtectedTermRedefinition, term)
		}
		definition = previousDefinition
	}

	// 28)
	c.terms[term] = definition
	defined[term] = true
	return nil
}

func (c *Context) validateContainer(containerValue interface{}) ([]string, error) {
	values := make([]string, 0, 3)
	for _, v := range Arrayify(containerValue) {
		vStr, isString := v.(string)
		if !isString {
			return nil, NewJsonLdError(InvalidContainerMapping, containerValue)
		}
		switch vStr {
		case "@list", "@set", "@index", "@language", "@id", "@type", "@graph":
			values = append(values, vStr)
		default:
			return nil, NewJsonLdError(InvalidContainerMapping, vStr)
		}
	}

	if c.processingMode10() {
		if len(values) != 1 {
			return nil, NewJsonLdError(InvalidContainerMapping,
				"@container must be a single value in JSON-LD 1.0")
		}
		switch values[0] {
		case "@graph", "@id", "@type":
			return nil, NewJsonLdError(InvalidContainerMapping, values[0])
		}
		return values, nil
	}

	contains := func(kw string) bool {
		for _, v := range values {
			if v == kw {
				return true
			}
		}
		return false
	}

	switch {
	case len(values) == 1:
	case contains("@graph") && (contains("@id") || contains("@index")):
		// @graph may combine with @id or @index, plus @set
		for _, v := range values {
			switch v {
			case "@graph", "@id", "@index", "@set":
			default:
				return nil, NewJsonLdError(InvalidContainerMapping, v)
			}
		}
	case contains("@set") && len(values) == 2:
		switch {
		case contains("@list"):
			return nil, NewJsonLdError(InvalidContainerMapping, "@set cannot be combined with @list")
		}
	default:
		return nil, NewJsonLdError(InvalidContainerMapping, containerValue)
	}

	return values, nil
}

// ExpandIri expands a string value to a full IRI.
//
// The string may be a term, a compact IRI, a relative IRI, or an absolute
// IRI.
//
// value: the string value to expand.
// documentRelative: true to resolve the value against the base IRI.
// vocabRelative: true to try term definitions and the vocabulary mapping.
// context: the local context being processed (only during context processing).
// defined: cycle-tracking map (only during context processing).
func (c *Context) ExpandIri(value string, documentRelative, vocabRelative bool,
	context map[string]interface{}, defined map[string]bool) (string, error) {
	// 1)
	if IsKeyword(value) || looksLikeKeyword(value) {
		return value, nil
	}
	// 2)
	if context != nil {
		if _, containsKey := context[value]; containsKey && !defined[value] {
			if err := c.createTermDefinition(context, value, defined, false, false, "", nil, true); err != nil {
				return "", err
			}
		}
	}
	// 3)
	if def, hasDef := c.terms[value]; vocabRelative && hasDef {
		if def == nil {
			// term explicitly decoupled from any IRI
			return "", nil
		}
		return def.IRI, nil
	}
	// 4) a colon after the first character marks a potential compact IRI
	colIndex := -1
	if len(value) > 1 {
		colIndex = strings.Index(value[1:], ":")
	}
	if colIndex >= 0 {
		colIndex++
		prefix := value[0:colIndex]
		suffix := value[colIndex+1:]
		// 4.2)
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, nil
		}
		// 4.3)
		if context != nil {
			if _, containsPrefix := context[prefix]; containsPrefix && !defined[prefix] {
				if err := c.createTermDefinition(context, prefix, defined, false, false, "", nil, true); err != nil {
					return "", err
				}
			}
		}
		// 4.4)
		if def, hasPrefix := c.terms[prefix]; hasPrefix && def != nil && def.IRI != "" &&
			(context != nil || def.Prefix) {
			return def.IRI + suffix, nil
		}
		// 4.5)
		if IsAbsoluteIri(value) {
			return value, nil
		}
	}
	// 5)
	if vocabRelative && c.vocab != "" {
		return c.vocab + value, nil
	} else if documentRelative {
		// 6)
		return Resolve(c.base, value), nil
	} else if context != nil && IsRelativeIri(value) {
		return "", NewJsonLdError(InvalidIRIMapping, "not an absolute IRI: "+value)
	}
	// 7)
	return value, nil
}

// ExpandValue expands the given scalar by using the coercion and keyword
// rules of the active property's term definition.
// See https://www.w3.org/TR/json-ld11-api/#value-expansion
func (c *Context) ExpandValue(activeProperty string, value interface{}) (interface{}, error) {
	rval := make(map[string]interface{})
	td := c.GetTermDefinition(activeProperty)

	if td != nil {
		// 1) + 2)
		if td.TypeMapping == "@id" || td.TypeMapping == "@vocab" {
			if strVal, isString := value.(string); isString {
				id, err := c.ExpandIri(strVal, true, td.TypeMapping == "@vocab", nil, nil)
				if err != nil {
					return nil, err
				}
				rval["@id"] = id
				return rval, nil
			}
		}
	}

	// 3)
	rval["@value"] = value

	// 4)
	if td != nil && td.TypeMapping != "" && td.TypeMapping != "@id" &&
		td.TypeMapping != "@vocab" && td.TypeMapping != "@none" {
		rval["@type"] = td.TypeMapping
	} else if _, isString := value.(string); isString {
		// 5)
		language := c.language
		direction := c.direction
		if td != nil && td.HasLanguage {
			language = td.LanguageMapping
		}
		if td != nil && td.HasDirection {
			direction = td.DirectionMapping
		}
		if language != "" {
			rval["@language"] = language
		}
		if direction != "" {
			rval["@direction"] = direction
		}
	}

	return rval, nil
}

// GetTermDefinition returns the term definition for the given key, or nil.
func (c *Context) GetTermDefinition(key string) *TermDefinition {
	return c.terms[key]
}

// HasTermDefinition returns true if the context has an entry for the term,
// including an explicit null entry.
func (c *Context) HasTermDefinition(key string) bool {
	_, has := c.terms[key]
	return has
}

// HasContainerMapping returns true if the given property has the given
// container mapping.
func (c *Context) HasContainerMapping(property, container string) bool {
	return c.GetTermDefinition(property).HasContainer(container)
}

// IsReverseProperty returns true if the given property is a reverse property.
func (c *Context) IsReverseProperty(property string) bool {
	td := c.GetTermDefinition(property)
	return td != nil && td.Reverse
}

// GetTypeMapping returns the type mapping for the given property.
func (c *Context) GetTypeMapping(property string) string {
	if td := c.GetTermDefinition(property); td != nil {
		return td.TypeMapping
	}
	return ""
}

// GetLanguageMapping returns the effective language for the given property,
// falling back to the context default.
func (c *Context) GetLanguageMapping(property string) string {
	if td := c.GetTermDefinition(property); td != nil && td.HasLanguage {
		return td.LanguageMapping
	}
	return c.language
}

// Base returns the current base IRI.
func (c *Context) Base() string {
	return c.base
}

// Vocab returns the current vocabulary mapping.
func (c *Context) Vocab() string {
	return c.vocab
}
