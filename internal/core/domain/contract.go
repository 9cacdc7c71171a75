// Package domain holds the contract extraction model. Extracted fields are
// pointer-typed: nil means "not found", never an empty string guess.
package domain

type ContractType string

const (
	TypeStaffAugmentation  ContractType = "STAFF_AUGMENTATION"
	TypeProjectOutsourcing ContractType = "PROJECT_OUTSOURCING"
	TypeProductSales       ContractType = "PRODUCT_SALES"
	TypeMixed              ContractType = "MIXED"
)

type Language string

const (
	LanguageChinese   Language = "zh"
	LanguageEnglish   Language = "en"
	LanguageBilingual Language = "bilingual"
)

type ContractIdentification struct {
	ContractNumber    *string       `json:"contractNumber,omitempty"`
	ContractTitle     *string       `json:"contractTitle,omitempty"`
	ContractType      *ContractType `json:"contractType,omitempty"`
	SubType           *string       `json:"subType,omitempty"`
	VersionNumber     *string       `json:"versionNumber,omitempty"`
	EffectiveLanguage *Language     `json:"effectiveLanguage,omitempty"`
}

type ContactPerson struct {
	Name  *string `json:"name,omitempty"`
	Title *string `json:"title,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type AuthorizedSignatory struct {
	Name          *string `json:"name,omitempty"`
	Title         *string `json:"title,omitempty"`
	SignatureDate *string `json:"signatureDate,omitempty"`
}

type PartyInfo struct {
	Name                *string              `json:"name,omitempty"`
	LegalEntityType     *string              `json:"legalEntityType,omitempty"`
	RegistrationNumber  *string              `json:"registrationNumber,omitempty"`
	RegisteredAddress   *string              `json:"registeredAddress,omitempty"`
	OperationalAddress  *string              `json:"operationalAddress,omitempty"`
	ContactPerson       *ContactPerson       `json:"contactPerson,omitempty"`
	AuthorizedSignatory *AuthorizedSignatory `json:"authorizedSignatory,omitempty"`
}

type AdditionalParty struct {
	Role  string    `json:"role"`
	Party PartyInfo `json:"party"`
}

type PartiesInfo struct {
	FirstParty        PartyInfo         `json:"firstParty"`
	SecondParty       PartyInfo         `json:"secondParty"`
	AdditionalParties []AdditionalParty `json:"additionalParties,omitempty"`
}

type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

type Duration struct {
	Value int          `json:"value"`
	Unit  DurationUnit `json:"unit"`
}

type RenewalTerms struct {
	AutomaticRenewal bool      `json:"automaticRenewal"`
	RenewalTerm      *string   `json:"renewalTerm,omitempty"`
	NoticePeriod     *Duration `json:"noticePeriod,omitempty"`
}

// ContractTerm dates are ISO yyyy-mm-dd strings, already normalized from
// whatever literal form the source text used.
type ContractTerm struct {
	ExecutionDate    *string       `json:"executionDate,omitempty"`
	EffectiveDate    *string       `json:"effectiveDate,omitempty"`
	CommencementDate *string       `json:"commencementDate,omitempty"`
	TerminationDate  *string       `json:"terminationDate,omitempty"`
	Duration         *Duration     `json:"duration,omitempty"`
	Renewal          *RenewalTerms `json:"renewal,omitempty"`
}

type BasicExtractedFields struct {
	Identification       ContractIdentification `json:"identification"`
	Parties              PartiesInfo            `json:"parties"`
	Term                 ContractTerm           `json:"term"`
	ExtractionConfidence float64                `json:"extractionConfidence"`
}

// ExtractionMetrics reports per-extractor confidence plus a flat count of
// populated leaves. Observability only.
type ExtractionMetrics struct {
	IdentificationConfidence float64 `json:"identificationConfidence"`
	PartiesConfidence        float64 `json:"partiesConfidence"`
	TermConfidence           float64 `json:"termConfidence"`
	OverallConfidence        float64 `json:"overallConfidence"`
	FieldsExtracted          int     `json:"fieldsExtracted"`
	TotalFields              int     `json:"totalFields"`
}

// LoadedDocument is the plain-text outcome of a document load, tagged with
// the format/strategy pair that produced it.
type LoadedDocument struct {
	Text     string `json:"text"`
	Pages    int    `json:"pages,omitempty"`
	Strategy string `json:"strategy"`
}

// ParseResult is the never-failing synchronous parse answer: failures are
// carried as Success=false with a diagnostic, not as an error.
type ParseResult struct {
	Success  bool                  `json:"success"`
	Text     string                `json:"text,omitempty"`
	Pages    int                   `json:"pages,omitempty"`
	Strategy string                `json:"strategy,omitempty"`
	Fields   *BasicExtractedFields `json:"fields,omitempty"`
	Error    string                `json:"error,omitempty"`
}
