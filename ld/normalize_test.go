package ld

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeNQuads(t *testing.T, input string, opts *JsonLdOptions) string {
	t.Helper()
	if opts == nil {
		opts = NewJsonLdOptions("")
	}
	opts.InputFormat = "application/n-quads"
	proc := NewJsonLdProcessor()
	out, err := proc.Normalize(input, opts)
	require.NoError(t, err)
	return out.(string)
}

func TestNormalize(t *testing.T) {
	t.Run("single blank node", func(t *testing.T) {
		out := normalizeNQuads(t, "_:x <http://ex/p> \"lit\" .\n", nil)
		assert.Equal(t, "_:c14n0 <http://ex/p> \"lit\" .\n", out)
	})

	t.Run("ground quads pass through sorted", func(t *testing.T) {
		out := normalizeNQuads(t,
			"<http://ex/b> <http://ex/p> \"2\" .\n<http://ex/a> <http://ex/p> \"1\" .\n", nil)
		assert.Equal(t,
			"<http://ex/a> <http://ex/p> \"1\" .\n<http://ex/b> <http://ex/p> \"2\" .\n", out)
	})

	t.Run("two-cycle is deterministic", func(t *testing.T) {
		first := normalizeNQuads(t, "_:x <http://ex/p> _:y .\n_:y <http://ex/p> _:x .\n", nil)
		second := normalizeNQuads(t, "_:y <http://ex/p> _:x .\n_:x <http://ex/p> _:y .\n", nil)
		assert.Equal(t, first, second)

		lines := strings.Split(strings.TrimSuffix(first, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, first, "_:c14n0")
		assert.Contains(t, first, "_:c14n1")
	})

	t.Run("relabelling invariance", func(t *testing.T) {
		original := "_:alice <http://ex/knows> _:bob .\n_:bob <http://ex/name> \"Bob\" .\n"
		relabelled := "_:p1 <http://ex/knows> _:p2 .\n_:p2 <http://ex/name> \"Bob\" .\n"
		assert.Equal(t, normalizeNQuads(t, original, nil), normalizeNQuads(t, relabelled, nil))
	})

	t.Run("quad order invariance", func(t *testing.T) {
		a := "_:a <http://ex/p> _:b .\n_:b <http://ex/q> \"v\" .\n_:a <http://ex/r> \"w\" .\n"
		b := "_:a <http://ex/r> \"w\" .\n_:a <http://ex/p> _:b .\n_:b <http://ex/q> \"v\" .\n"
		assert.Equal(t, normalizeNQuads(t, a, nil), normalizeNQuads(t, b, nil))
	})

	t.Run("blank graph names participate", func(t *testing.T) {
		out := normalizeNQuads(t, "<http://ex/a> <http://ex/p> \"v\" _:g .\n", nil)
		assert.Equal(t, "<http://ex/a> <http://ex/p> \"v\" _:c14n0 .\n", out)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		input := "_:a <http://ex/p> _:b .\n_:b <http://ex/p> _:c .\n_:c <http://ex/p> _:a .\n"
		first := normalizeNQuads(t, input, nil)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, normalizeNQuads(t, input, nil))
		}
	})

	t.Run("sha-384", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.HashAlgorithm = HashSHA384
		out := normalizeNQuads(t, "_:x <http://ex/p> _:y .\n_:y <http://ex/p> _:x .\n", opts)
		assert.Contains(t, out, "_:c14n0")
		assert.Contains(t, out, "_:c14n1")
	})

	t.Run("unknown hash algorithm", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.HashAlgorithm = "MD5"
		opts.InputFormat = "application/n-quads"
		proc := NewJsonLdProcessor()
		_, err := proc.Normalize("_:x <http://ex/p> \"v\" .\n", opts)
		assertErrorCode(t, err, HashingAlgorithmUnavailable)
	})

	t.Run("max call depth", func(t *testing.T) {
		opts := NewJsonLdOptions("")
		opts.MaxCallDepth = 1
		opts.InputFormat = "application/n-quads"
		proc := NewJsonLdProcessor()
		_, err := proc.Normalize(
			"_:x <http://ex/p> _:y .\n_:y <http://ex/p> _:x .\n", opts)
		assertErrorCode(t, err, MaxCallDepthExceeded)
	})

	t.Run("json-ld input", func(t *testing.T) {
		proc := NewJsonLdProcessor()
		out, err := proc.Normalize(fromJSON(t, `{"http://ex/name":"Alice"}`), nil)
		require.NoError(t, err)
		assert.Equal(t, "_:c14n0 <http://ex/name> \"Alice\" .\n", out)
	})

	t.Run("dataset input", func(t *testing.T) {
		dataset, err := ParseNQuads("_:z <http://ex/p> \"v\" .\n")
		require.NoError(t, err)
		proc := NewJsonLdProcessor()
		out, err := proc.Normalize(dataset, nil)
		require.NoError(t, err)
		assert.Equal(t, "_:c14n0 <http://ex/p> \"v\" .\n", out)
	})
}

func TestPermutator(t *testing.T) {
	p := newPermutator([]string{"b", "a", "c"})
	seen := make(map[string]bool)
	count := 0
	for p.hasNext() {
		perm := p.next()
		require.Len(t, perm, 3)
		seen[strings.Join(perm, ",")] = true
		count++
	}
	assert.Equal(t, 6, count)
	assert.Len(t, seen, 6)
	assert.True(t, seen["a,b,c"])
	assert.True(t, seen["c,b,a"])
}
