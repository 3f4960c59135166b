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

import "strconv"

// IdentifierIssuer issues unique blank node identifiers, keeping track of
// any previously issued identifiers in issue order. The mapping from an old
// identifier to an issued one is one-to-one and monotonic for the lifetime
// of the issuer.
type IdentifierIssuer struct {
	prefix        string
	counter       int
	existing      map[string]string
	existingOrder []string
}

// NewIdentifierIssuer creates and returns a new IdentifierIssuer with the
// given prefix, e.g. "_:b" or "_:c14n".
func NewIdentifierIssuer(prefix string) *IdentifierIssuer {
	return &IdentifierIssuer{
		prefix:   prefix,
		existing: make(map[string]string),
	}
}

// Clone copies this IdentifierIssuer.
func (ii *IdentifierIssuer) Clone() *IdentifierIssuer {
	clone := &IdentifierIssuer{
		prefix:        ii.prefix,
		counter:       ii.counter,
		existing:      make(map[string]string, len(ii.existing)),
		existingOrder: make([]string, len(ii.existingOrder)),
	}
	for k, v := range ii.existing {
		clone.existing[k] = v
	}
	copy(clone.existingOrder, ii.existingOrder)
	return clone
}

// GetId returns the issued identifier for the given old identifier, issuing
// a new one on first sight. An empty old identifier always mints a fresh
// identifier without recording it.
func (ii *IdentifierIssuer) GetId(oldId string) string { //nolint:stylecheck
	if oldId != "" {
		if issued, present := ii.existing[oldId]; present {
			return issued
		}
	}

	id := ii.prefix + strconv.Itoa(ii.counter)
	ii.counter++

	if oldId != "" {
		ii.existing[oldId] = id
		ii.existingOrder = append(ii.existingOrder, oldId)
	}

	return id
}

// HasId returns true if the given old identifier has already been assigned.
func (ii *IdentifierIssuer) HasId(oldId string) bool { //nolint:stylecheck
	_, hasKey := ii.existing[oldId]
	return hasKey
}
