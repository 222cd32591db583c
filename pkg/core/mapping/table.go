// Package mapping holds the static cross-standard account mapping table.
// The table is embedded at build time and loaded once; lookups never
// perform I/O.
package mapping

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	"gaap_bridge/pkg/core/accounting"
)

//go:embed data/mappings.yaml
var rawTable []byte

// Table is an immutable account mapping registry.
type Table struct {
	entries    []accounting.CanonicalMapping
	byInternal map[string]*accounting.CanonicalMapping
	byKGAAP    map[string]*accounting.CanonicalMapping
}

var (
	defaultTable *Table
	loadErr      error
	once         sync.Once
)

// Default returns the process-wide table loaded from the embedded data.
func Default() (*Table, error) {
	once.Do(func() {
		defaultTable, loadErr = Load(rawTable)
	})
	return defaultTable, loadErr
}

// MustDefault is Default for callers wired at startup, where a broken
// embedded table is a programming error.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("mapping: embedded table invalid: %v", err))
	}
	return t
}

// Load parses a YAML mapping document into a Table.
func Load(data []byte) (*Table, error) {
	var doc struct {
		Mappings []accounting.CanonicalMapping `yaml:"mappings"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse mapping table: %w", err)
	}
	if len(doc.Mappings) == 0 {
		return nil, fmt.Errorf("mapping table is empty")
	}

	t := &Table{
		entries:    doc.Mappings,
		byInternal: make(map[string]*accounting.CanonicalMapping, len(doc.Mappings)),
		byKGAAP:    make(map[string]*accounting.CanonicalMapping, len(doc.Mappings)),
	}
	for i := range t.entries {
		m := &t.entries[i]
		if m.InternalCode == "" || m.InternalName == "" {
			return nil, fmt.Errorf("mapping entry %d missing internal code or name", i)
		}
		if _, dup := t.byInternal[m.InternalCode]; dup {
			return nil, fmt.Errorf("duplicate internal code %s", m.InternalCode)
		}
		t.byInternal[m.InternalCode] = m
		// K-GAAP ledger codes are not unique across statements (the same
		// numeric range is reused on the income statement); keep the first
		// occurrence, matching table order.
		if m.KGAAPCode != "" {
			if _, ok := t.byKGAAP[m.KGAAPCode]; !ok {
				t.byKGAAP[m.KGAAPCode] = m
			}
		}
	}
	return t, nil
}

// All returns every mapping in declaration order.
func (t *Table) All() []accounting.CanonicalMapping {
	out := make([]accounting.CanonicalMapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of mappings.
func (t *Table) Len() int { return len(t.entries) }

// FindByInternalCode looks up a mapping by its canonical code.
func (t *Table) FindByInternalCode(code string) *accounting.CanonicalMapping {
	return t.byInternal[code]
}

// FindBySourceCode looks up a mapping by the source-standard ledger code.
// Only K-GAAP carries numeric ledger codes; IFRS/US-GAAP inputs match by
// taxonomy element name instead.
func (t *Table) FindBySourceCode(code string, source accounting.Standard) *accounting.CanonicalMapping {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	switch source {
	case accounting.KGAAP:
		return t.byKGAAP[code]
	case accounting.IFRS:
		for i := range t.entries {
			if t.entries[i].IFRSCode == code {
				return &t.entries[i]
			}
		}
	case accounting.USGAAP:
		for i := range t.entries {
			if t.entries[i].USGAAPCode == code {
				return &t.entries[i]
			}
		}
	}
	return nil
}

// FindByName looks up a mapping by account name: exact match against the
// K-GAAP name or the internal name first, then a normalized containment
// match in either direction. Ties resolve to the first entry in table
// order.
func (t *Table) FindByName(name string) *accounting.CanonicalMapping {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	for i := range t.entries {
		m := &t.entries[i]
		if m.KGAAPName == name || m.InternalName == name {
			return m
		}
	}

	norm := normalizeName(name)
	for i := range t.entries {
		m := &t.entries[i]
		normKGAAP := normalizeName(m.KGAAPName)
		normInternal := normalizeName(m.InternalName)
		if (normKGAAP != "" && strings.Contains(normKGAAP, norm)) ||
			strings.Contains(normInternal, norm) ||
			strings.Contains(norm, normInternal) {
			return m
		}
	}
	return nil
}

// ByKind returns all mappings with the given mapping kind, in table order.
func (t *Table) ByKind(kind accounting.MappingKind) []accounting.CanonicalMapping {
	var out []accounting.CanonicalMapping
	for _, m := range t.entries {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// normalizeName strips all whitespace and lowercases for fuzzy comparison.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
