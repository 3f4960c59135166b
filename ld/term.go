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

// TermDefinition describes how a single term behaves in an active context.
// See https://www.w3.org/TR/json-ld11/#dfn-term-definition
//
// A nil *TermDefinition stored in a context marks a term that was explicitly
// set to null: it blocks vocab expansion for that term without removing the
// entry.
type TermDefinition struct {
	// IRI is the IRI this term expands to. It may also be a keyword
	// (for keyword aliases) or a blank node identifier.
	IRI string

	// TypeMapping is an IRI or one of @id, @vocab, @json, @none.
	// Empty means no type coercion.
	TypeMapping string

	// LanguageMapping is meaningful only when HasLanguage is set. An empty
	// string with HasLanguage set records an explicit null language that
	// suppresses the context default.
	LanguageMapping string
	HasLanguage     bool

	// DirectionMapping is "ltr", "rtl", or empty. An empty string with
	// HasDirection set records an explicit null direction.
	DirectionMapping string
	HasDirection     bool

	// Container is the container mapping, a set drawn from
	// @list, @set, @index, @language, @id, @type, @graph.
	Container []string

	// IndexMapping is the @index key for index containers.
	IndexMapping string

	// Context is a term-scoped local context, applied when the term is used
	// as active property or type. BaseURL is the base it was found under.
	Context    interface{}
	HasContext bool
	BaseURL    string

	// Nest is the @nest target for this term, either "@nest" or a term that
	// aliases it.
	Nest string

	Reverse   bool
	Protected bool
	Prefix    bool
}

// HasContainer returns true if the container mapping includes the given
// keyword.
func (td *TermDefinition) HasContainer(container string) bool {
	if td == nil {
		return false
	}
	for _, c := range td.Container {
		if c == container {
			return true
		}
	}
	return false
}

// sameExceptProtected reports whether two definitions agree on everything
// other than the protected flag. Used for the protected term redefinition
// check, which permits re-stating an identical definition.
func (td *TermDefinition) sameExceptProtected(other *TermDefinition) bool {
	if td == nil || other == nil {
		return td == nil && other == nil
	}
	if td.IRI != other.IRI ||
		td.TypeMapping != other.TypeMapping ||
		td.LanguageMapping != other.LanguageMapping ||
		td.HasLanguage != other.HasLanguage ||
		td.DirectionMapping != other.DirectionMapping ||
		td.HasDirection != other.HasDirection ||
		td.IndexMapping != other.IndexMapping ||
		td.Nest != other.Nest ||
		td.Reverse != other.Reverse ||
		td.Prefix != other.Prefix {
		return false
	}
	if len(td.Container) != len(other.Container) {
		return false
	}
	for _, c := range td.Container {
		if !other.HasContainer(c) {
			return false
		}
	}
	if td.HasContext != other.HasContext {
		return false
	}
	if td.HasContext && !DeepCompare(td.Context, other.Context, true) {
		return false
	}
	return true
}

// clone returns a copy of the definition. Container is the only mutable
// field that needs a fresh backing array.
func (td *TermDefinition) clone() *TermDefinition {
	if td == nil {
		return nil
	}
	clone := *td
	if td.Container != nil {
		clone.Container = append([]string(nil), td.Container...)
	}
	return &clone
}
