package crosswalk

import (
	"context"
	"errors"
	"testing"

	"github.com/BartekS5/tanamao-migrate/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	refs []Reference
	err  error
}

func (s staticSource) References(context.Context) ([]Reference, error) { return s.refs, s.err }

var (
	legacyRefs = staticSource{refs: []Reference{
		{ID: "5f1a00000000000000000001", Code: " pix "},
		{ID: "5f1a00000000000000000002", Code: "Dinheiro"},
		{ID: "5f1a00000000000000000003", Code: "cheque"},
		{ID: "5f1a00000000000000000004", Code: ""},
		{ID: "", Code: "VR"},
	}}
	targetRefs = staticSource{refs: []Reference{
		{ID: "650000000000000000000001", Code: "PIX"},
		{ID: "650000000000000000000002", Code: "dinheiro "},
		{ID: "650000000000000000000005", Code: "CREDITO"},
		{ID: "", Code: "DEBITO"},
	}}
)

func TestBuild(t *testing.T) {
	m, err := Build(context.Background(), legacyRefs, targetRefs)
	require.NoError(t, err)

	legacy, target := m.Len()
	assert.Equal(t, 3, legacy)
	assert.Equal(t, 3, target)

	code, ok := m.CodeFor("5f1a00000000000000000001")
	assert.True(t, ok)
	assert.Equal(t, "PIX", code)

	_, ok = m.CodeFor("5f1a00000000000000000004")
	assert.False(t, ok, "empty codes are dropped")

	t.Run("scan failures abort", func(t *testing.T) {
		_, err := Build(context.Background(), staticSource{err: errors.New("boom")}, targetRefs)
		assert.Error(t, err)
		_, err = Build(context.Background(), legacyRefs, staticSource{err: errors.New("boom")})
		assert.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	m, err := Build(context.Background(), legacyRefs, targetRefs)
	require.NoError(t, err)

	t.Run("legacy id through its code", func(t *testing.T) {
		id, code, ok := m.Resolve("5f1a00000000000000000002")
		assert.True(t, ok)
		assert.Equal(t, "DINHEIRO", code)
		assert.Equal(t, "650000000000000000000002", id)
	})

	t.Run("raw code fallback", func(t *testing.T) {
		id, _, ok := m.Resolve("credito")
		assert.True(t, ok)
		assert.Equal(t, "650000000000000000000005", id)
	})

	t.Run("code without target", func(t *testing.T) {
		_, code, ok := m.Resolve("5f1a00000000000000000003")
		assert.False(t, ok)
		assert.Equal(t, "CHEQUE", code)
	})

	t.Run("blank reference", func(t *testing.T) {
		_, _, ok := m.Resolve("  ")
		assert.False(t, ok)
	})
}

// Every legacy code present on both sides resolves to the id a direct
// lookup of the normalised code in the target finds.
func TestResolveAgreesWithDirectLookup(t *testing.T) {
	m, err := Build(context.Background(), legacyRefs, targetRefs)
	require.NoError(t, err)

	direct := func(code string) (string, bool) {
		for _, r := range targetRefs.refs {
			if r.ID != "" && utils.NormalizeCode(r.Code) == utils.NormalizeCode(code) {
				return r.ID, true
			}
		}
		return "", false
	}

	for _, ref := range legacyRefs.refs {
		code, ok := m.CodeFor(ref.ID)
		if !ok {
			continue
		}
		want, found := direct(code)
		if !found {
			continue
		}
		got, ok := m.IDFor(code)
		assert.True(t, ok, ref.ID)
		assert.Equal(t, want, got, ref.ID)
	}
}
