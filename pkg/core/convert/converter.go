// Package convert maps extracted accounts onto the target standard and
// computes the rule-based adjustment entries for the standard pair.
package convert

import (
	"gaap_bridge/pkg/core/accounting"
	"gaap_bridge/pkg/core/mapping"
)

// Converter resolves each extracted account against the canonical mapping
// table.
type Converter struct {
	table *mapping.Table
}

// NewConverter creates a converter over the given mapping table.
func NewConverter(table *mapping.Table) *Converter {
	return &Converter{table: table}
}

// Convert maps every account to its target-standard code, 1:1 and in input
// order. Lookup is source code first, then account name; accounts with no
// mapping pass through under the UNMAPPED sentinel with their name and
// amount preserved. Adjustments are always empty here; the adjustment
// engine fills them in a later stage.
func (c *Converter) Convert(accounts []accounting.RawAccount, source, target accounting.Standard) []accounting.ConvertedAccount {
	converted := make([]accounting.ConvertedAccount, 0, len(accounts))

	for _, acc := range accounts {
		var m *accounting.CanonicalMapping
		if acc.Code != "" {
			m = c.table.FindBySourceCode(acc.Code, source)
		}
		if m == nil {
			m = c.table.FindByName(acc.Name)
		}

		if m == nil {
			converted = append(converted, accounting.ConvertedAccount{
				RawAccount:   acc,
				InternalCode: accounting.CodeUnmapped,
				InternalName: acc.Name,
				TargetCode:   accounting.CodeUnmapped,
				Kind:         accounting.MappingOneToOne,
				Adjustments:  []accounting.AdjustmentEntry{},
			})
			continue
		}

		converted = append(converted, accounting.ConvertedAccount{
			RawAccount:   acc,
			InternalCode: m.InternalCode,
			InternalName: m.InternalName,
			TargetCode:   m.TargetCode(target),
			Kind:         m.Kind,
			Adjustments:  []accounting.AdjustmentEntry{},
		})
	}

	return converted
}
