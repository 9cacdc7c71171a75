package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

// PartiesExtractor splits contract text into role-scoped sections and
// recovers first-party, second-party and additional-party records.
type PartiesExtractor struct{}

func NewPartiesExtractor() *PartiesExtractor {
	return &PartiesExtractor{}
}

// Role keyword sets. The first occurrence of each set bounds that role's
// section; synonyms (买方/卖方, 发包方/承包方, ...) map onto the same role.
var (
	firstPartyKeyword      = regexp.MustCompile(`甲方|买方|发包方|委托方|需方|(?i:party\s*A\b)`)
	secondPartyKeyword     = regexp.MustCompile(`乙方|卖方|承包方|受托方|供方|(?i:party\s*B\b)`)
	additionalPartyKeyword = regexp.MustCompile(`丙方|丁方|担保方|保证人|监理方|(?i:party\s*C\b)`)
)

var (
	firstPartyNameSpec  = partyNameSpec(`甲方|买方|发包方|委托方|需方|(?i:party\s*A)`)
	secondPartyNameSpec = partyNameSpec(`乙方|卖方|承包方|受托方|供方|(?i:party\s*B)`)
)

func partyNameSpec(keywords string) fieldSpec {
	return fieldSpec{
		rules: []*regexp.Regexp{
			regexp.MustCompile(`(?:` + keywords + `)(?:（[^）]{0,40}）|\([^)]{0,40}\))?\s*(?:名称|全称)?\s*[:]\s*([^\n]+)`),
		},
		clean:    cleanPartyName,
		validate: validPartyName,
	}
}

var (
	parentheticalAlias = regexp.MustCompile(`（[^）]*）|\([^)]*\)`)
	nameLineTrailer    = regexp.MustCompile(`(?:地址|住所|法定代表人|统一社会信用代码|信用代码|注册号)[:]?.*$`)
	nameEdgePunct      = "，,。;；、: \t\"'“”"
)

// cleanPartyName strips parenthetical aliases ("（以下简称甲方）") and any
// trailing address/legal-representative/credit-code fragment sharing the
// name's line.
func cleanPartyName(s string) string {
	s = parentheticalAlias.ReplaceAllString(s, "")
	s = nameLineTrailer.ReplaceAllString(s, "")
	return strings.Trim(s, nameEdgePunct)
}

// Single-rune names are valid: role lines in excerpts and bilingual
// templates name parties "A" and "B".
func validPartyName(s string) bool {
	n := runeLen(s)
	return n >= 1 && n <= 100 && !allDigits(s) && !hasPlaceholder(s)
}

// Entity-type suffixes, longest first so 股份有限公司 is not reported as
// 有限公司.
var legalEntityTypes = []string{
	"股份有限公司",
	"有限责任公司",
	"有限公司",
	"合伙企业",
	"个人独资企业",
	"事务所",
	"研究院",
	"Co., Ltd.",
	"Ltd.",
	"Inc.",
	"LLC",
	"Corp.",
}

var registrationNumberSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`(?:统一社会信用代码|社会信用代码|注册号|营业执照号?)[:]?\s*([0-9A-Z]{15,18})`),
		regexp.MustCompile(`\b([0-9A-HJ-NP-RTUW-Y]{18})\b`),
	},
	validate: func(s string) bool {
		n := len(s)
		return n >= 15 && n <= 18
	},
}

var registeredAddressSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`(?:注册地址|注册地|住所地?)[:]\s*([^\n]+)`),
	},
	validate: func(s string) bool {
		return runeLen(s) >= 4 && !hasPlaceholder(s)
	},
}

var operationalAddressSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`(?:经营地址|办公地址|通讯地址|联系地址)[:]\s*([^\n]+)`),
	},
	validate: func(s string) bool {
		return runeLen(s) >= 4 && !hasPlaceholder(s)
	},
}

var (
	contactNameSpec = fieldSpec{
		rules: []*regexp.Regexp{
			regexp.MustCompile(`(?:联系人|联络人)[:]\s*([^\s，,。;；、]{2,20})`),
		},
		validate: func(s string) bool { return !hasPlaceholder(s) && !allDigits(s) },
	}
	contactTitleSpec = fieldSpec{
		rules: []*regexp.Regexp{
			regexp.MustCompile(`(?:职务|职位)[:]\s*([^\s，,。;；、]{2,20})`),
		},
	}
	contactPhoneSpec = fieldSpec{
		rules: []*regexp.Regexp{
			regexp.MustCompile(`(?:联系电话|电话|手机|(?i:tel))[:]?\s*([+0-9][0-9\- ]{6,19})`),
		},
	}
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+`)

	signatoryNameSpec = fieldSpec{
		rules: []*regexp.Regexp{
			regexp.MustCompile(`(?:授权代表|法定代表人|签字代表|委托代理人)[:]\s*([^\s，,。;；、]{2,20})`),
		},
		validate: func(s string) bool { return !hasPlaceholder(s) && !allDigits(s) },
	}
	signatureDateKeyword = regexp.MustCompile(`签字日期|签署日期|签订日期`)
)

// Additional-party roles are scanned over the whole text, independent of the
// primary section split. One entry per matching role keyword.
var additionalPartyRoles = []struct {
	label string
	spec  fieldSpec
}{
	{"丙方", partyNameSpec(`丙方`)},
	{"丁方", partyNameSpec(`丁方`)},
	{"担保方", partyNameSpec(`担保方`)},
	{"保证人", partyNameSpec(`保证人`)},
	{"监理方", partyNameSpec(`监理方`)},
	{"Party C", partyNameSpec(`(?i:party\s*C)`)},
}

// Extract splits text at the first occurrence of each role keyword set. A
// role whose keyword never appears gets an empty section and falls back to
// scanning the whole text.
func (e *PartiesExtractor) Extract(text string) domain.PartiesInfo {
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return domain.PartiesInfo{}
	}

	firstSection, secondSection := splitRoleSections(text)
	return domain.PartiesInfo{
		FirstParty:        extractParty(firstSection, text, firstPartyNameSpec),
		SecondParty:       extractParty(secondSection, text, secondPartyNameSpec),
		AdditionalParties: extractAdditionalParties(text),
	}
}

func splitRoleSections(text string) (first, second string) {
	firstIdx := keywordIndex(firstPartyKeyword, text)
	secondIdx := keywordIndex(secondPartyKeyword, text)
	additionalIdx := keywordIndex(additionalPartyKeyword, text)

	if firstIdx >= 0 {
		end := len(text)
		if secondIdx > firstIdx {
			end = secondIdx
		}
		first = text[firstIdx:end]
	}
	if secondIdx >= 0 {
		end := len(text)
		if additionalIdx > secondIdx {
			end = additionalIdx
		}
		second = text[secondIdx:end]
	}
	return first, second
}

func keywordIndex(keyword *regexp.Regexp, text string) int {
	loc := keyword.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func extractParty(section, whole string, nameSpec fieldSpec) domain.PartyInfo {
	scope := section
	if scope == "" {
		scope = whole
	}

	party := domain.PartyInfo{
		Name:               nameSpec.extract(scope),
		RegistrationNumber: registrationNumberSpec.extract(scope),
		RegisteredAddress:  registeredAddressSpec.extract(scope),
		OperationalAddress: operationalAddressSpec.extract(scope),
	}
	party.LegalEntityType = detectLegalEntityType(party.Name, scope)
	party.ContactPerson = extractContactPerson(scope)
	party.AuthorizedSignatory = extractSignatory(scope)
	return party
}

func detectLegalEntityType(name *string, scope string) *string {
	haystack := scope
	if name != nil {
		haystack = *name
	}
	for _, suffix := range legalEntityTypes {
		if strings.Contains(haystack, suffix) {
			v := suffix
			return &v
		}
	}
	return nil
}

// extractContactPerson returns nil unless a contact-person name was found.
// An unparsable email leaves Email nil without discarding the contact.
func extractContactPerson(scope string) *domain.ContactPerson {
	name := contactNameSpec.extract(scope)
	if name == nil {
		return nil
	}
	contact := &domain.ContactPerson{
		Name:  name,
		Title: contactTitleSpec.extract(scope),
	}
	if phone := contactPhoneSpec.extract(scope); phone != nil {
		normalized := stripSpaces(*phone)
		contact.Phone = &normalized
	}
	if email := emailPattern.FindString(scope); email != "" && validEmail(email) {
		contact.Email = &email
	}
	return contact
}

func extractSignatory(scope string) *domain.AuthorizedSignatory {
	name := signatoryNameSpec.extract(scope)
	if name == nil {
		return nil
	}
	return &domain.AuthorizedSignatory{
		Name:          name,
		Title:         contactTitleSpec.extract(scope),
		SignatureDate: findDateNear(scope, signatureDateKeyword),
	}
}

func extractAdditionalParties(text string) []domain.AdditionalParty {
	var out []domain.AdditionalParty
	for _, role := range additionalPartyRoles {
		name := role.spec.extract(text)
		if name == nil {
			continue
		}
		out = append(out, domain.AdditionalParty{
			Role:  role.label,
			Party: domain.PartyInfo{Name: name},
		})
	}
	return out
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// validEmail is a structural check only: exactly one @ with non-empty local
// and domain parts.
func validEmail(s string) bool {
	at := strings.Count(s, "@")
	if at != 1 {
		return false
	}
	local, dom, _ := strings.Cut(s, "@")
	return local != "" && dom != ""
}

// Confidence weighs first and second party equally; inside a party the name
// dominates.
func (e *PartiesExtractor) Confidence(p domain.PartiesInfo) float64 {
	return 0.5*partyConfidence(p.FirstParty) + 0.5*partyConfidence(p.SecondParty)
}

func partyConfidence(p domain.PartyInfo) float64 {
	score := 0.0
	if p.Name != nil {
		score += 0.50
	}
	if p.RegistrationNumber != nil {
		score += 0.20
	}
	if p.RegisteredAddress != nil {
		score += 0.15
	}
	if p.ContactPerson != nil {
		score += 0.15
	}
	return score
}
