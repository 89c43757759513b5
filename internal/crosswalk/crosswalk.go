// Package crosswalk translates legacy reference ids into target ids through
// the human-readable code both stores share.
package crosswalk

import (
	"context"
	"fmt"

	"github.com/BartekS5/tanamao-migrate/pkg/utils"
)

// Reference is one row of a reference collection.
type Reference struct {
	ID   string
	Code string
}

// Source lists every reference of one store.
type Source interface {
	References(ctx context.Context) ([]Reference, error)
}

// Map is built once per run and only read afterwards.
type Map struct {
	oldIDToCode map[string]string
	codeToNewID map[string]string
}

// Build scans both sources once. Rows without id or code are skipped.
func Build(ctx context.Context, legacy, target Source) (*Map, error) {
	oldRefs, err := legacy.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan legacy references: %w", err)
	}
	newRefs, err := target.References(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan target references: %w", err)
	}

	m := &Map{
		oldIDToCode: make(map[string]string, len(oldRefs)),
		codeToNewID: make(map[string]string, len(newRefs)),
	}
	for _, r := range oldRefs {
		if code := utils.NormalizeCode(r.Code); r.ID != "" && code != "" {
			m.oldIDToCode[r.ID] = code
		}
	}
	for _, r := range newRefs {
		if code := utils.NormalizeCode(r.Code); r.ID != "" && code != "" {
			m.codeToNewID[code] = r.ID
		}
	}
	return m, nil
}

// CodeFor returns the normalised code of a legacy id.
func (m *Map) CodeFor(legacyID string) (string, bool) {
	code, ok := m.oldIDToCode[legacyID]
	return code, ok
}

// IDFor returns the target id of a code, normalising it first.
func (m *Map) IDFor(code string) (string, bool) {
	id, ok := m.codeToNewID[utils.NormalizeCode(code)]
	return id, ok
}

// Resolve maps a legacy reference to its target id. A reference unknown as
// a legacy id is tried as a code.
func (m *Map) Resolve(ref string) (id, code string, ok bool) {
	code, known := m.CodeFor(ref)
	if !known {
		code = utils.NormalizeCode(ref)
	}
	if code == "" {
		return "", "", false
	}
	id, ok = m.IDFor(code)
	return id, code, ok
}

// Len reports the number of legacy ids and target codes known.
func (m *Map) Len() (legacy, target int) {
	return len(m.oldIDToCode), len(m.codeToNewID)
}
