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
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	hashPkg "hash"
	"sort"
	"strings"
)

// AlgorithmURDNA2015 is the name of the supported RDF dataset
// canonicalization algorithm.
const AlgorithmURDNA2015 = "URDNA2015"

var positions = []string{"s", "o", "g"}

// blankNodeInfo collects the quads mentioning one blank node and caches its
// first-degree hash.
type blankNodeInfo struct {
	quads []*Quad
	hash  string
}

// NormalisationAlgorithm holds the state of one URDNA2015 run: the blank
// node index, the canonical issuer and the collected quads.
type NormalisationAlgorithm struct {
	bnodeInfo        map[string]*blankNodeInfo
	hashToBlankNodes map[string][]string
	canonicalIssuer  *IdentifierIssuer
	quads            []*Quad
	lines            []string
	hashAlgorithm    string
	maxCallDepth     int
	depth            int
}

// NewNormalisationAlgorithm creates a new canonicalization run using the
// given hash algorithm (HashSHA256 or HashSHA384; "" means SHA-256).
func NewNormalisationAlgorithm(hashAlgorithm string) *NormalisationAlgorithm {
	if hashAlgorithm == "" {
		hashAlgorithm = HashSHA256
	}
	return &NormalisationAlgorithm{
		bnodeInfo:       make(map[string]*blankNodeInfo),
		canonicalIssuer: NewIdentifierIssuer("_:c14n"),
		hashAlgorithm:   hashAlgorithm,
	}
}

// Normalize canonicalizes the dataset and returns canonical N-Quads text
// (when opts.Format selects application/n-quads, the default) or the
// relabelled dataset.
func (api *JsonLdApi) Normalize(dataset *RDFDataset, opts *JsonLdOptions) (interface{}, error) {
	na := NewNormalisationAlgorithm(opts.HashAlgorithm)
	na.maxCallDepth = opts.MaxCallDepth
	return na.Main(dataset, opts)
}

// Main runs the canonicalization algorithm and renders the result per the
// output format options.
func (na *NormalisationAlgorithm) Main(dataset *RDFDataset, opts *JsonLdOptions) (interface{}, error) {
	switch na.hashAlgorithm {
	case HashSHA256, HashSHA384:
	default:
		return nil, NewJsonLdError(HashingAlgorithmUnavailable, na.hashAlgorithm)
	}

	if err := na.Normalize(dataset); err != nil {
		return nil, err
	}

	format := opts.Format
	if format == "" {
		format = "application/n-quads"
	}
	switch format {
	case "application/n-quads", "application/nquads":
		var sb strings.Builder
		for _, line := range na.lines {
			sb.WriteString(line)
		}
		return sb.String(), nil
	case "dataset":
		var sb strings.Builder
		for _, line := range na.lines {
			sb.WriteString(line)
		}
		return ParseNQuads(sb.String())
	default:
		return nil, NewJsonLdError(UnknownFormat, opts.Format)
	}
}

// Quads returns the relabelled quads in canonical order. Only valid after
// Normalize has run.
func (na *NormalisationAlgorithm) Quads() []*Quad {
	return na.quads
}

// Normalize implements the URDNA2015 algorithm over the dataset.
// See https://www.w3.org/TR/rdf-canon/
func (na *NormalisationAlgorithm) Normalize(dataset *RDFDataset) error {
	// 1) + 2) index every quad by the blank nodes it mentions
	for _, graphName := range dataset.GraphNames() {
		name := graphName
		if name == "@default" {
			name = ""
		}
		for _, quad := range dataset.Graphs[graphName] {
			if name != "" && quad.Graph == nil {
				if strings.HasPrefix(name, "_:") {
					quad.Graph = NewBlankNode(name)
				} else {
					quad.Graph = NewIRI(name)
				}
			}

			na.quads = append(na.quads, quad)

			for _, attrNode := range []Node{quad.Subject, quad.Object, quad.Graph} {
				if attrNode == nil || !IsBlankNode(attrNode) {
					continue
				}
				id := attrNode.GetValue()
				info, hasID := na.bnodeInfo[id]
				if !hasID {
					info = &blankNodeInfo{}
					na.bnodeInfo[id] = info
				}
				info.quads = append(info.quads, quad)
			}
		}
	}

	// 3)
	nonNormalized := make(map[string]bool)
	for id := range na.bnodeInfo {
		nonNormalized[id] = true
	}

	// 4) + 5) issue canonical identifiers for bnodes with unique
	// first-degree hashes until a fixed point is reached
	simple := true
	for simple {
		simple = false

		na.hashToBlankNodes = make(map[string][]string)
		for id := range nonNormalized {
			hash := na.hashFirstDegreeQuads(id)
			na.hashToBlankNodes[hash] = append(na.hashToBlankNodes[hash], id)
		}

		for _, hash := range sortedKeys(na.hashToBlankNodes) {
			idList := na.hashToBlankNodes[hash]
			if len(idList) > 1 {
				continue
			}
			id := idList[0]
			na.canonicalIssuer.GetId(id)
			delete(nonNormalized, id)
			delete(na.hashToBlankNodes, hash)
			simple = true
		}
	}

	// 6) resolve the remaining shared-hash groups via N-degree hashing
	for _, hash := range sortedKeys(na.hashToBlankNodes) {
		hashPaths := make(map[string][]*IdentifierIssuer)

		for _, id := range sortedStrings(na.hashToBlankNodes[hash]) {
			if na.canonicalIssuer.HasId(id) {
				continue
			}

			issuer := NewIdentifierIssuer("_:b")
			issuer.GetId(id)

			ndHash, newIssuer, err := na.hashNDegreeQuads(id, issuer)
			if err != nil {
				return err
			}
			hashPaths[ndHash] = append(hashPaths[ndHash], newIssuer)
		}

		for _, ndHash := range sortedKeys2(hashPaths) {
			for _, resultIssuer := range hashPaths[ndHash] {
				for _, existing := range resultIssuer.existingOrder {
					na.canonicalIssuer.GetId(existing)
				}
			}
		}
	}

	// 7) relabel and serialize
	na.lines = make([]string, len(na.quads))
	for i, quad := range na.quads {
		for _, attrNode := range []Node{quad.Subject, quad.Object, quad.Graph} {
			if attrNode == nil {
				continue
			}
			if bn, isBlank := attrNode.(*BlankNode); isBlank && !strings.HasPrefix(bn.Attribute, "_:c14n") {
				bn.Attribute = na.canonicalIssuer.GetId(bn.Attribute)
			}
		}

		var name string
		if quad.Graph != nil {
			name = quad.Graph.GetValue()
		}
		na.lines[i] = toNQuad(quad, name)
	}

	sort.Sort(na)
	return nil
}

// sort.Interface over lines and quads in lockstep
func (na *NormalisationAlgorithm) Len() int           { return len(na.quads) }
func (na *NormalisationAlgorithm) Less(i, j int) bool { return na.lines[i] < na.lines[j] }
func (na *NormalisationAlgorithm) Swap(i, j int) {
	na.lines[i], na.lines[j] = na.lines[j], na.lines[i]
	na.quads[i], na.quads[j] = na.quads[j], na.quads[i]
}

// hashFirstDegreeQuads computes (and caches) the first-degree hash for the
// given blank node identifier.
func (na *NormalisationAlgorithm) hashFirstDegreeQuads(id string) string {
	info := na.bnodeInfo[id]
	if info.hash != "" {
		return info.hash
	}

	nquads := make([]string, 0, len(info.quads))
	for _, quad := range info.quads {
		// every mention of the reference node becomes _:a, every other
		// blank node becomes _:z
		graphCopy := modifyFirstDegreeComponent(id, quad.Graph)
		var name string
		if graphCopy != nil {
			name = graphCopy.GetValue()
		}
		quadCopy := &Quad{
			Subject:   modifyFirstDegreeComponent(id, quad.Subject),
			Predicate: quad.Predicate,
			Object:    modifyFirstDegreeComponent(id, quad.Object),
			Graph:     graphCopy,
		}
		nquads = append(nquads, toNQuad(quadCopy, name))
	}

	sort.Strings(nquads)

	md := na.createHash()
	for _, nquad := range nquads {
		md.Write([]byte(nquad))
	}
	info.hash = hex.EncodeToString(md.Sum(nil))
	return info.hash
}

func modifyFirstDegreeComponent(id string, component Node) Node {
	if component == nil || !IsBlankNode(component) {
		return component
	}
	if component.GetValue() == id {
		return NewBlankNode("_:a")
	}
	return NewBlankNode("_:z")
}

// hashRelatedBlankNode hashes the relation of a blank node to the reference
// node through one quad: position tag, predicate, and the best known
// identifier for the related node.
func (na *NormalisationAlgorithm) hashRelatedBlankNode(related string, quad *Quad,
	issuer *IdentifierIssuer, position string) string {

	var id string
	switch {
	case na.canonicalIssuer.HasId(related):
		id = na.canonicalIssuer.GetId(related)
	case issuer.HasId(related):
		id = issuer.GetId(related)
	default:
		id = na.hashFirstDegreeQuads(related)
	}

	md := na.createHash()
	md.Write([]byte(position))
	if position != "g" {
		md.Write([]byte("<" + quad.Predicate.GetValue() + ">"))
	}
	md.Write([]byte(id))
	return hex.EncodeToString(md.Sum(nil))
}

// hashNDegreeQuads explores the neighborhood of the given blank node,
// choosing the lexicographically least identifier-assignment path.
func (na *NormalisationAlgorithm) hashNDegreeQuads(id string, issuer *IdentifierIssuer) (string, *IdentifierIssuer, error) {
	if na.maxCallDepth > 0 {
		na.depth++
		if na.depth > na.maxCallDepth {
			return "", nil, NewJsonLdError(MaxCallDepthExceeded, na.maxCallDepth)
		}
		defer func() { na.depth-- }()
	}

	// 1) - 3)
	hashToRelated := na.createHashToRelated(id, issuer)

	// 4)
	md := na.createHash()

	// 5)
	for _, hash := range sortedKeys(hashToRelated) {
		blankNodes := hashToRelated[hash]
		// 5.1)
		md.Write([]byte(hash))

		// 5.2) + 5.3)
		chosenPath := ""
		var chosenIssuer *IdentifierIssuer

		// 5.4)
		permutator := newPermutator(blankNodes)
		for permutator.hasNext() {
			permutation := permutator.next()

			issuerCopy := issuer.Clone()
			path := ""
			recursionList := make([]string, 0)
			skipToNextPermutation := false

			// 5.4.4)
			for _, related := range permutation {
				if na.canonicalIssuer.HasId(related) {
					path += na.canonicalIssuer.GetId(related)
				} else {
					if !issuerCopy.HasId(related) {
						recursionList = append(recursionList, related)
					}
					path += issuerCopy.GetId(related)
				}
				// prune against the running minimum
				if chosenPath != "" && len(path) >= len(chosenPath) && path > chosenPath {
					skipToNextPermutation = true
					break
				}
			}
			if skipToNextPermutation {
				continue
			}

			// 5.4.5)
			for _, related := range recursionList {
				resultHash, resultIssuer, err := na.hashNDegreeQuads(related, issuerCopy)
				if err != nil {
					return "", nil, err
				}
				path += issuerCopy.GetId(related)
				path += "<" + resultHash + ">"
				issuerCopy = resultIssuer
				if chosenPath != "" && len(path) >= len(chosenPath) && path > chosenPath {
					skipToNextPermutation = true
					break
				}
			}
			if skipToNextPermutation {
				continue
			}

			// 5.4.6)
			if chosenPath == "" || path < chosenPath {
				chosenPath = path
				chosenIssuer = issuerCopy
			}
		}

		// 5.5) + 5.6)
		md.Write([]byte(chosenPath))
		issuer = chosenIssuer
	}

	return hex.EncodeToString(md.Sum(nil)), issuer, nil
}

// createHashToRelated maps related-bnode hashes to the blank nodes they
// identify, for every quad touching the given node.
func (na *NormalisationAlgorithm) createHashToRelated(id string, issuer *IdentifierIssuer) map[string][]string {
	hashToRelated := make(map[string][]string)

	for _, quad := range na.bnodeInfo[id].quads {
		for i, attrNode := range []Node{quad.Subject, quad.Object, quad.Graph} {
			if attrNode == nil || !IsBlankNode(attrNode) || attrNode.GetValue() == id {
				continue
			}
			related := attrNode.GetValue()
			hash := na.hashRelatedBlankNode(related, quad, issuer, positions[i])
			hashToRelated[hash] = append(hashToRelated[hash], related)
		}
	}

	return hashToRelated
}

func (na *NormalisationAlgorithm) createHash() hashPkg.Hash {
	if na.hashAlgorithm == HashSHA384 {
		return sha512.New384()
	}
	return sha256.New()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys2(m map[string][]*IdentifierIssuer) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedStrings(values []string) []string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return sorted
}

// permutator enumerates the permutations of a list of blank node
// identifiers with the Steinhaus-Johnson-Trotter algorithm.
type permutator struct {
	list []string
	done bool
	left map[string]bool
}

func newPermutator(list []string) *permutator {
	p := &permutator{}
	p.list = make([]string, len(list))
	copy(p.list, list)
	sort.Strings(p.list)
	p.left = make(map[string]bool, len(list))
	for _, i := range p.list {
		p.left[i] = true
	}
	return p
}

// hasNext returns true if there is another permutation.
func (p *permutator) hasNext() bool {
	return !p.done
}

// next gets the next permutation. Call hasNext() first.
func (p *permutator) next() []string {
	rval := make([]string, len(p.list))
	copy(rval, p.list)

	// find the largest mobile element k
	k := ""
	pos := 0
	length := len(p.list)
	for i := 0; i < length; i++ {
		element := p.list[i]
		left := p.left[element]
		if (k == "" || element > k) &&
			((left && i > 0 && element > p.list[i-1]) ||
				(!left && i < (length-1) && element > p.list[i+1])) {
			k = element
			pos = i
		}
	}

	if k == "" {
		// no more permutations
		p.done = true
	} else {
		// swap k and the element it is looking at
		var swap int
		if p.left[k] {
			swap = pos - 1
		} else {
			swap = pos + 1
		}
		p.list[pos] = p.list[swap]
		p.list[swap] = k

		// reverse the direction of all elements larger than k
		for i := 0; i < length; i++ {
			if p.list[i] > k {
				p.left[p.list[i]] = !p.left[p.list[i]]
			}
		}
	}

	return rval
}
