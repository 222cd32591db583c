// Package accounting defines the shared domain types for the standard
// conversion engine: extracted accounts, the cross-standard mapping record,
// adjustment entries, and the terminal conversion result.
package accounting

import (
	"fmt"
	"strings"
)

// Standard identifies an accounting standard regime.
type Standard string

const (
	KGAAP  Standard = "K-GAAP"
	IFRS   Standard = "IFRS"
	USGAAP Standard = "US-GAAP"
)

// ParseStandard normalizes a user-supplied standard name.
func ParseStandard(s string) (Standard, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "K-GAAP", "KGAAP":
		return KGAAP, nil
	case "IFRS", "K-IFRS":
		return IFRS, nil
	case "US-GAAP", "USGAAP":
		return USGAAP, nil
	}
	return "", fmt.Errorf("unknown accounting standard: %q", s)
}

// MappingKind classifies how an account translates across standards.
type MappingKind string

const (
	MappingOneToOne        MappingKind = "1:1"
	MappingAggregate       MappingKind = "집계"
	MappingComputed        MappingKind = "계산항목"
	MappingNeedsAdjustment MappingKind = "조정필요"
)

// RawAccount is one line item extracted from a source statement.
// Amount is signed; when both Debit and Credit were present in the source,
// Amount = Debit - Credit.
type RawAccount struct {
	Code   string  `json:"accountCode,omitempty"`
	Name   string  `json:"accountName"`
	Amount float64 `json:"amount"`
	Debit  float64 `json:"debit,omitempty"`
	Credit float64 `json:"credit,omitempty"`
}

// CanonicalMapping joins one internal canonical account to its K-GAAP,
// IFRS and US-GAAP representations. Loaded once at process start and
// immutable afterwards.
type CanonicalMapping struct {
	InternalCode string      `json:"internalCode" yaml:"internal_code"`
	InternalName string      `json:"internalName" yaml:"internal_name"`
	KGAAPCode    string      `json:"kgaapCode,omitempty" yaml:"kgaap_code"`
	KGAAPName    string      `json:"kgaapName,omitempty" yaml:"kgaap_name"`
	IFRSCode     string      `json:"ifrsCode" yaml:"ifrs_code"`
	USGAAPCode   string      `json:"usgaapCode" yaml:"usgaap_code"`
	Kind         MappingKind `json:"mappingKind" yaml:"kind"`
	Note         string      `json:"note,omitempty" yaml:"note"`
}

// TargetCode returns the account code under the given target standard.
func (m *CanonicalMapping) TargetCode(target Standard) string {
	if target == USGAAP {
		return m.USGAAPCode
	}
	return m.IFRSCode
}

// AdjustmentEntry is one adjustment computed by the adjustment engine.
// Immutable once created; applied exactly once.
type AdjustmentEntry struct {
	Reason       string  `json:"reason"`
	TargetName   string  `json:"targetAccountName"`
	BeforeAmount float64 `json:"beforeAmount"`
	Amount       float64 `json:"adjustmentAmount"`
	AfterAmount  float64 `json:"afterAmount"`
	Note         string  `json:"note"`
}

// Sentinel internal codes used by the converter and applier.
const (
	CodeUnmapped = "UNMAPPED"
	CodeNew      = "NEW"
)

// ConvertedAccount is a RawAccount joined to its canonical mapping and
// target-standard code. The applier mutates Amount and Adjustments in
// place; after the pipeline returns, the value is immutable.
type ConvertedAccount struct {
	RawAccount
	InternalCode string            `json:"internalCode"`
	InternalName string            `json:"internalName"`
	TargetCode   string            `json:"targetCode"`
	Kind         MappingKind       `json:"mappingKind"`
	Adjustments  []AdjustmentEntry `json:"adjustments"`
}

// TopicDetection flags one conversion topic as relevant to the input.
type TopicDetection struct {
	TopicID    string  `json:"id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Summary carries the aggregate counts of one conversion run.
type Summary struct {
	TotalAccounts    int      `json:"totalAccounts"`
	TotalAdjustments int      `json:"totalAdjustments"`
	UnmappedAccounts int      `json:"unmappedAccounts"`
	ConversionDate   string   `json:"conversionDate"`
	SourceStandard   Standard `json:"sourceStandard"`
	TargetStandard   Standard `json:"targetStandard"`
}

// ConversionResult is the terminal artifact of one pipeline run.
type ConversionResult struct {
	RunID       string             `json:"runId"`
	Accounts    []ConvertedAccount `json:"accounts"`
	Adjustments []AdjustmentEntry  `json:"adjustments"`
	Detections  []TopicDetection   `json:"detections"`
	Summary     Summary            `json:"summary"`
	Warnings    []string           `json:"warnings,omitempty"`
	Partial     bool               `json:"partial,omitempty"`
}

// Preview returns the first limit accounts for display.
func (r *ConversionResult) Preview(limit int) []ConvertedAccount {
	if limit <= 0 || limit >= len(r.Accounts) {
		return r.Accounts
	}
	return r.Accounts[:limit]
}
