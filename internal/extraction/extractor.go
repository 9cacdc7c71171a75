package extraction

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

// Extractor runs the three field extractors over the same input and combines
// their confidences. Stateless and safe for concurrent use; each extractor
// normalizes its own input so they stay independently testable.
type Extractor struct {
	identification *IdentificationExtractor
	parties        *PartiesExtractor
	term           *TermExtractor
	logger         *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		identification: NewIdentificationExtractor(),
		parties:        NewPartiesExtractor(),
		term:           NewTermExtractor(),
		logger:         logger,
	}
}

// Fixed per-extractor weights for the overall confidence.
const (
	weightIdentification = 0.30
	weightParties        = 0.40
	weightTerm           = 0.30
)

func (e *Extractor) ExtractBasicFields(text string) domain.BasicExtractedFields {
	fields, _ := e.ExtractWithMetrics(text)
	return fields
}

func (e *Extractor) ExtractWithMetrics(text string) (domain.BasicExtractedFields, domain.ExtractionMetrics) {
	identification := e.identification.Extract(text)
	parties := e.parties.Extract(text)
	term := e.term.Extract(text)

	idConfidence := e.identification.Confidence(identification)
	partiesConfidence := e.parties.Confidence(parties)
	termConfidence := e.term.Confidence(term)
	overall := weightIdentification*idConfidence +
		weightParties*partiesConfidence +
		weightTerm*termConfidence

	fields := domain.BasicExtractedFields{
		Identification:       identification,
		Parties:              parties,
		Term:                 term,
		ExtractionConfidence: overall,
	}

	extracted, total := countLeaves(fields)
	metrics := domain.ExtractionMetrics{
		IdentificationConfidence: idConfidence,
		PartiesConfidence:        partiesConfidence,
		TermConfidence:           termConfidence,
		OverallConfidence:        overall,
		FieldsExtracted:          extracted,
		TotalFields:              total,
	}

	e.logger.Debug("contract_fields_extracted",
		"confidence", overall,
		"fields_extracted", extracted,
		"total_fields", total,
	)
	return fields, metrics
}

// countLeaves counts non-null leaf fields across the three structures. Flat
// and unweighted; observability only, never control flow.
func countLeaves(f domain.BasicExtractedFields) (extracted, total int) {
	leaves := []bool{
		f.Identification.ContractNumber != nil,
		f.Identification.ContractTitle != nil,
		f.Identification.ContractType != nil,
		f.Identification.SubType != nil,
		f.Identification.VersionNumber != nil,
		f.Identification.EffectiveLanguage != nil,
		f.Term.ExecutionDate != nil,
		f.Term.EffectiveDate != nil,
		f.Term.CommencementDate != nil,
		f.Term.TerminationDate != nil,
		f.Term.Duration != nil,
		f.Term.Renewal != nil,
	}
	leaves = append(leaves, partyLeaves(f.Parties.FirstParty)...)
	leaves = append(leaves, partyLeaves(f.Parties.SecondParty)...)

	for _, present := range leaves {
		if present {
			extracted++
		}
	}
	return extracted, len(leaves)
}

func partyLeaves(p domain.PartyInfo) []bool {
	leaves := []bool{
		p.Name != nil,
		p.LegalEntityType != nil,
		p.RegistrationNumber != nil,
		p.RegisteredAddress != nil,
		p.OperationalAddress != nil,
	}
	if p.ContactPerson != nil {
		leaves = append(leaves,
			p.ContactPerson.Name != nil,
			p.ContactPerson.Title != nil,
			p.ContactPerson.Phone != nil,
			p.ContactPerson.Email != nil,
		)
	} else {
		leaves = append(leaves, false, false, false, false)
	}
	if p.AuthorizedSignatory != nil {
		leaves = append(leaves,
			p.AuthorizedSignatory.Name != nil,
			p.AuthorizedSignatory.Title != nil,
			p.AuthorizedSignatory.SignatureDate != nil,
		)
	} else {
		leaves = append(leaves, false, false, false)
	}
	return leaves
}

// FlatRecord produces the sparse key/value view downstream completeness
// checks consume. Only non-null leaves appear; no extra validation happens
// here.
func FlatRecord(f domain.BasicExtractedFields) map[string]string {
	record := make(map[string]string)
	put := func(key string, value *string) {
		if value != nil {
			record[key] = *value
		}
	}

	put("contract_number", f.Identification.ContractNumber)
	put("contract_title", f.Identification.ContractTitle)
	if f.Identification.ContractType != nil {
		record["contract_type"] = string(*f.Identification.ContractType)
	}
	put("first_party_name", f.Parties.FirstParty.Name)
	put("first_party_registration_number", f.Parties.FirstParty.RegistrationNumber)
	put("second_party_name", f.Parties.SecondParty.Name)
	put("second_party_registration_number", f.Parties.SecondParty.RegistrationNumber)
	put("sign_date", f.Term.ExecutionDate)
	put("start_date", f.Term.CommencementDate)
	put("end_date", f.Term.TerminationDate)
	if f.Term.Duration != nil {
		record["duration"] = FormatDuration(*f.Term.Duration)
	}
	return record
}

func FormatDuration(d domain.Duration) string {
	return fmt.Sprintf("%d %s", d.Value, d.Unit)
}
