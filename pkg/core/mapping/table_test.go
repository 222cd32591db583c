package mapping

import (
	"testing"

	"gaap_bridge/pkg/core/accounting"
)

func TestDefaultTableLoads(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default table failed to load: %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("Default table is empty")
	}

	// Every entry carries the join key and both target codes
	for _, m := range table.All() {
		if m.InternalCode == "" || m.InternalName == "" {
			t.Errorf("Entry missing internal identity: %+v", m)
		}
		if m.IFRSCode == "" || m.USGAAPCode == "" {
			t.Errorf("Entry %s missing target codes", m.InternalCode)
		}
	}
}

func TestFindBySourceCode(t *testing.T) {
	table := MustDefault()

	m := table.FindBySourceCode("101", accounting.KGAAP)
	if m == nil {
		t.Fatal("Expected mapping for K-GAAP code 101")
	}
	if m.InternalCode != "1001" {
		t.Errorf("Expected internal code 1001, got %s", m.InternalCode)
	}
	if m.TargetCode(accounting.IFRS) != "CashAndCashEquivalentsAtCarryingValue" {
		t.Errorf("Unexpected IFRS code: %s", m.TargetCode(accounting.IFRS))
	}

	if table.FindBySourceCode("999999", accounting.KGAAP) != nil {
		t.Error("Expected nil for unknown code")
	}
}

// K-GAAP ledger codes repeat across statements (401 is both 자본금 and
// 매출액); the first table entry wins.
func TestFindBySourceCodeDuplicateKeepsFirst(t *testing.T) {
	m := MustDefault().FindBySourceCode("401", accounting.KGAAP)
	if m == nil {
		t.Fatal("Expected mapping for code 401")
	}
	if m.InternalCode != "4001" {
		t.Errorf("Expected first entry 4001 (자본금), got %s", m.InternalCode)
	}
}

func TestFindByName(t *testing.T) {
	table := MustDefault()

	// Exact K-GAAP name
	if m := table.FindByName("매출채권"); m == nil || m.InternalCode != "1101" {
		t.Errorf("Expected 1101 for 매출채권, got %+v", m)
	}

	// Containment in either direction
	if m := table.FindByName("매출채권및기타채권"); m == nil || m.InternalCode != "1101" {
		t.Errorf("Expected fuzzy match to 1101, got %+v", m)
	}

	// Whitespace and case insensitive
	if m := table.FindByName(" 현금및현금성자산 "); m == nil || m.InternalCode != "1001" {
		t.Errorf("Expected 1001 with surrounding whitespace, got %+v", m)
	}

	if table.FindByName("전혀관련없는이름") != nil {
		t.Error("Expected nil for unknown name")
	}
}

func TestFindByInternalCode(t *testing.T) {
	table := MustDefault()

	for _, code := range []string{"2001", "3401", "4301", "5001", "2501", "3501"} {
		if table.FindByInternalCode(code) == nil {
			t.Errorf("Adjustment anchor %s missing from the table", code)
		}
	}
}

func TestByKind(t *testing.T) {
	table := MustDefault()

	oneToOne := table.ByKind(accounting.MappingOneToOne)
	if len(oneToOne) == 0 {
		t.Error("Expected 1:1 mappings")
	}
	needsAdj := table.ByKind(accounting.MappingNeedsAdjustment)
	if len(needsAdj) == 0 {
		t.Error("Expected 조정필요 mappings")
	}
	for _, m := range needsAdj {
		if m.Kind != accounting.MappingNeedsAdjustment {
			t.Errorf("ByKind returned wrong kind: %+v", m)
		}
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	if _, err := Load([]byte("mappings: [broken")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
