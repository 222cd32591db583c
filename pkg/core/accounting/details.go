package accounting

// Per-topic parameter structs supplied by the caller after topic selection.
// A nil topic pointer in ConversionDetails means the topic's rules are
// skipped entirely; the engine never substitutes default values.

// AssetValuationModel selects between the IFRS measurement models for PP&E.
type AssetValuationModel string

const (
	ModelCost        AssetValuationModel = "cost"
	ModelRevaluation AssetValuationModel = "revaluation"
)

// AssetValuationDetails drives the revaluation-removal rule.
type AssetValuationDetails struct {
	Model              AssetValuationModel `json:"model"`
	FairValue          float64             `json:"fairValue,omitempty"`
	DepreciationMethod string              `json:"depreciationMethod,omitempty"`
	UsefulLifeYears    int                 `json:"usefulLife,omitempty"`
}

// PaymentFrequency is the lease payment cadence.
type PaymentFrequency string

const (
	PayMonthly   PaymentFrequency = "monthly"
	PayQuarterly PaymentFrequency = "quarterly"
	PayYearly    PaymentFrequency = "yearly"
)

// PaymentsPerYear converts the cadence to a period count. Unknown values
// fall back to yearly, matching the most conservative schedule.
func (f PaymentFrequency) PaymentsPerYear() float64 {
	switch f {
	case PayMonthly:
		return 12
	case PayQuarterly:
		return 4
	default:
		return 1
	}
}

// LeaseDetails drives the IFRS 16 right-of-use recognition rule.
type LeaseDetails struct {
	AssetType    string           `json:"assetType,omitempty"`
	TermMonths   float64          `json:"leaseTerm"`
	DiscountRate float64          `json:"discountRate"`
	Payment      float64          `json:"leasePayment"`
	Frequency    PaymentFrequency `json:"paymentFrequency"`
}

// CapitalizationChecklist holds the five IAS 38 development-cost criteria.
// Capitalization is allowed only when every item is true.
type CapitalizationChecklist struct {
	TechnicallyFeasible bool `json:"technicallyFeasible"`
	IntentionToComplete bool `json:"intentionToComplete"`
	AbilityToUse        bool `json:"abilityToUse"`
	ResourcesAvailable  bool `json:"resourcesAvailable"`
	ReliableMeasurement bool `json:"reliableMeasurement"`
}

// AllMet reports whether every capitalization criterion is satisfied.
func (c CapitalizationChecklist) AllMet() bool {
	return c.TechnicallyFeasible && c.IntentionToComplete && c.AbilityToUse &&
		c.ResourcesAvailable && c.ReliableMeasurement
}

// IntangibleAssetDetails drives the development-cost capitalization rule.
type IntangibleAssetDetails struct {
	AssetType       string                  `json:"assetType"` // development, patent, software, other
	Expenditures    float64                 `json:"expenditures"`
	Checklist       CapitalizationChecklist `json:"capitalizationChecklist"`
	UsefulLifeYears int                     `json:"usefulLife,omitempty"`
}

// RetirementBenefitDetails drives the defined-benefit remeasurement rule.
type RetirementBenefitDetails struct {
	DiscountRate         float64 `json:"discountRate"`
	SalaryIncreaseRate   float64 `json:"salaryIncreaseRate"`
	ExpectedServiceYears float64 `json:"expectedServiceYears"`
	CurrentObligation    float64 `json:"currentObligation"`
	PlanAssets           float64 `json:"planAssets"`
}

// RecognitionChecklist holds the three IAS 37 provision criteria.
type RecognitionChecklist struct {
	PresentObligation bool `json:"presentObligation"`
	ProbableOutflow   bool `json:"probableOutflow"`
	ReliableEstimate  bool `json:"reliableEstimate"`
}

// AllMet reports whether every recognition criterion is satisfied.
func (c RecognitionChecklist) AllMet() bool {
	return c.PresentObligation && c.ProbableOutflow && c.ReliableEstimate
}

// ProvisionScenario is one weighted settlement outcome.
type ProvisionScenario struct {
	Outcome     string  `json:"outcome"`
	Amount      float64 `json:"estimatedAmount"`
	Probability float64 `json:"probability"` // 0..1
}

// ProvisionDetails drives the expected-value provision recognition rule.
type ProvisionDetails struct {
	Checklist             RecognitionChecklist `json:"recognitionChecklist"`
	Scenarios             []ProvisionScenario  `json:"scenarios"`
	SettlementPeriodYears float64              `json:"settlementPeriod"`
	DiscountRate          float64              `json:"discountRate,omitempty"`
}

// RecognitionMethod selects between point-in-time and over-time revenue.
type RecognitionMethod string

const (
	RecognizePointInTime RecognitionMethod = "point-in-time"
	RecognizeOverTime    RecognitionMethod = "over-time"
)

// RevenueDetails drives the revenue-timing rule.
type RevenueDetails struct {
	ContractID    string            `json:"contractId,omitempty"`
	DeliveryTerms string            `json:"deliveryTerms,omitempty"`
	Method        RecognitionMethod `json:"recognitionMethod"`
}

// FinancialInstrumentDetails describes bonds and convertibles. Collected
// from the user alongside the other topics; the current rule sets carry it
// through for reporting only (liability/equity split is a note-level item,
// not an automated adjustment).
type FinancialInstrumentDetails struct {
	InstrumentType  string  `json:"instrumentType"` // bond, convertible-bond, other
	IssueDate       string  `json:"issueDate,omitempty"`
	MaturityDate    string  `json:"maturityDate,omitempty"`
	FaceValue       float64 `json:"faceValue"`
	CouponRate      float64 `json:"couponRate"`
	EffectiveRate   float64 `json:"effectiveRate"`
	ConversionRatio float64 `json:"conversionRatio,omitempty"`
}

// ConversionDetails bundles the optional per-topic parameters for one run.
type ConversionDetails struct {
	AssetValuation      *AssetValuationDetails      `json:"assetValuation,omitempty"`
	Lease               *LeaseDetails               `json:"lease,omitempty"`
	FinancialInstrument *FinancialInstrumentDetails `json:"financialInstruments,omitempty"`
	Revenue             *RevenueDetails             `json:"revenue,omitempty"`
	IntangibleAsset     *IntangibleAssetDetails     `json:"intangibleAsset,omitempty"`
	RetirementBenefit   *RetirementBenefitDetails   `json:"retirementBenefit,omitempty"`
	Provision           *ProvisionDetails           `json:"provision,omitempty"`
}
