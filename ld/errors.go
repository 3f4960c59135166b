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
)

// ErrorCode is a JSON-LD error code as per spec.
type ErrorCode string

// JsonLdError is a JSON-LD error as defined in the spec. Callers are
// expected to match on Code; Details carries the offending value or a
// wrapped cause.
type JsonLdError struct { //nolint:stylecheck
	Code    ErrorCode
	Details interface{}
}

const (
	CollidingKeywords           ErrorCode = "colliding keywords"
	ConflictingIndexes          ErrorCode = "conflicting indexes"
	ContextOverflow             ErrorCode = "context overflow"
	CyclicIRIMapping            ErrorCode = "cyclic IRI mapping"
	InvalidBaseDirection        ErrorCode = "invalid base direction"
	InvalidBaseIRI              ErrorCode = "invalid base IRI"
	InvalidContainerMapping     ErrorCode = "invalid container mapping"
	InvalidContextEntry         ErrorCode = "invalid context entry"
	InvalidContextNullification ErrorCode = "invalid context nullification"
	InvalidDefaultLanguage      ErrorCode = "invalid default language"
	InvalidIDValue              ErrorCode = "invalid @id value"
	InvalidImportValue          ErrorCode = "invalid @import value"
	InvalidIncludedValue        ErrorCode = "invalid @included value"
	InvalidIndexValue           ErrorCode = "invalid @index value"
	InvalidIRIMapping           ErrorCode = "invalid IRI mapping"
	InvalidKeywordAlias         ErrorCode = "invalid keyword alias"
	InvalidLanguageMapping      ErrorCode = "invalid language mapping"
	InvalidLanguageMapValue     ErrorCode = "invalid language map value"
	InvalidLanguageTaggedString ErrorCode = "invalid language-tagged string"
	InvalidLanguageTaggedValue  ErrorCode = "invalid language-tagged value"
	InvalidLocalContext         ErrorCode = "invalid local context"
	InvalidNestValue            ErrorCode = "invalid @nest value"
	InvalidPrefixValue          ErrorCode = "invalid @prefix value"
	InvalidPropagateValue       ErrorCode = "invalid @propagate value"
	InvalidProtectedValue       ErrorCode = "invalid @protected value"
	InvalidRemoteContext        ErrorCode = "invalid remote context"
	InvalidReverseProperty      ErrorCode = "invalid reverse property"
	InvalidReversePropertyMap   ErrorCode = "invalid reverse property map"
	InvalidReversePropertyValue ErrorCode = "invalid reverse property value"
	InvalidReverseValue         ErrorCode = "invalid @reverse value"
	InvalidScopedContext        ErrorCode = "invalid scoped context"
	InvalidSetOrListObject      ErrorCode = "invalid set or list object"
	InvalidTermDefinition       ErrorCode = "invalid term definition"
	InvalidTypedValue           ErrorCode = "invalid typed value"
	InvalidTypeMapping          ErrorCode = "invalid type mapping"
	InvalidTypeValue            ErrorCode = "invalid type value"
	InvalidValueObject          ErrorCode = "invalid value object"
	InvalidValueObjectValue     ErrorCode = "invalid value object value"
	InvalidVersionValue         ErrorCode = "invalid @version value"
	InvalidVocabMapping         ErrorCode = "invalid vocab mapping"
	IRIConfusedWithPrefix       ErrorCode = "IRI confused with prefix"
	KeywordRedefinition         ErrorCode = "keyword redefinition"
	ListOfLists                 ErrorCode = "list of lists"
	LoadingDocumentFailed       ErrorCode = "loading document failed"
	LoadingRemoteContextFailed  ErrorCode = "loading remote context failed"
	MultipleContextLinkHeaders  ErrorCode = "multiple context link headers"
	ProcessingModeConflict      ErrorCode = "processing mode conflict"
	ProtectedTermRedefinition   ErrorCode = "protected term redefinition"
	RecursiveContextInclusion   ErrorCode = "recursive context inclusion"

	// canonicalization errors
	HashingAlgorithmUnavailable ErrorCode = "hashing algorithm unavailable"
	MaxCallDepthExceeded        ErrorCode = "max call depth exceeded"

	// non spec related errors
	SyntaxError   ErrorCode = "syntax error"
	UnknownFormat ErrorCode = "unknown format"
	InvalidInput  ErrorCode = "invalid input"
	IOError       ErrorCode = "io error"
	UnknownError  ErrorCode = "unknown error"
)

func (e JsonLdError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return fmt.Sprintf("%v", e.Code)
}

// Unwrap returns JsonLdError.Details if it is an error, otherwise nil.
func (e JsonLdError) Unwrap() error {
	cause, _ := e.Details.(error)
	return cause
}

// NewJsonLdError creates a new instance of JsonLdError.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError { //nolint:stylecheck
	return &JsonLdError{Code: code, Details: details}
}
