package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

// IdentificationExtractor recovers contract number, title, type, subtype,
// version and effective language from contract text.
type IdentificationExtractor struct{}

func NewIdentificationExtractor() *IdentificationExtractor {
	return &IdentificationExtractor{}
}

var contractNumberSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`合同编号[:]\s*([A-Za-z0-9][A-Za-z0-9\-_/]*)`),
		regexp.MustCompile(`协议编号[:]\s*([A-Za-z0-9][A-Za-z0-9\-_/]*)`),
		regexp.MustCompile(`编\s*号[:]\s*([A-Za-z0-9][A-Za-z0-9\-_/]*)`),
		regexp.MustCompile(`(?i)contract\s*(?:no|number)\.?\s*[:]?\s*([A-Za-z0-9][A-Za-z0-9\-_/]*)`),
	},
	validate: func(s string) bool {
		n := runeLen(s)
		return n >= 3 && n <= 50 && !allZero(s) && !hasPlaceholder(s)
	},
}

var (
	bookTitleTrailer = regexp.MustCompile(`[《》]`)
	sectionTrailer   = regexp.MustCompile(`第[0-9一二三四五六七八九十百]+[条章节].*$`)
)

var contractTitleSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`合同名称[:]\s*([^\n]+)`),
		regexp.MustCompile(`《([^》\n]+)》`),
		regexp.MustCompile(`(?m)^ *([^\n:]{2,80}?(?:合同|协议)书?) *$`),
		regexp.MustCompile(`(?i)(?:contract|agreement)\s+title\s*[:]\s*([^\n]+)`),
	},
	clean: func(s string) string {
		s = bookTitleTrailer.ReplaceAllString(s, "")
		return sectionTrailer.ReplaceAllString(s, "")
	},
	validate: func(s string) bool {
		n := runeLen(s)
		return n >= 4 && n <= 200 && !hasPlaceholder(s)
	},
}

var subTypeSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`(?:合同类别|合同子类|服务类别|业务类型)[:]\s*([^\n，,。;；]+)`),
	},
	validate: func(s string) bool {
		n := runeLen(s)
		return n >= 2 && n <= 50 && !hasPlaceholder(s)
	},
}

var versionNumberSpec = fieldSpec{
	rules: []*regexp.Regexp{
		regexp.MustCompile(`版本号?[:]\s*([Vv]?[0-9]+(?:\.[0-9]+)*)`),
		regexp.MustCompile(`(?i)\bver(?:sion)?\.?\s*[:]?\s*([Vv]?[0-9]+(?:\.[0-9]+)*)`),
	},
	validate: func(s string) bool {
		return runeLen(s) <= 20
	},
}

// Keyword sets per contract category. Total pattern-hit occurrences are
// counted over the whole text; the strictly highest nonzero total wins.
// Declaration order doubles as the tie-break: on an equal score the earlier
// category keeps the win.
var contractTypeKeywords = []struct {
	category domain.ContractType
	patterns []*regexp.Regexp
}{
	{domain.TypeStaffAugmentation, []*regexp.Regexp{
		regexp.MustCompile(`人力外包|人员外派|劳务派遣|驻场(?:开发|服务)?|技术人员服务`),
		regexp.MustCompile(`(?i)staff\s+augmentation|secondment`),
	}},
	{domain.TypeProjectOutsourcing, []*regexp.Regexp{
		regexp.MustCompile(`软件开发|系统集成|项目外包|工程承包|项目开发|定制开发`),
		regexp.MustCompile(`(?i)project\s+outsourcing|software\s+development|system\s+integration`),
	}},
	{domain.TypeProductSales, []*regexp.Regexp{
		regexp.MustCompile(`产品销售|购销|买卖合同|销售合同|产品采购`),
		regexp.MustCompile(`(?i)product\s+sales?|purchase\s+and\s+sale`),
	}},
	{domain.TypeMixed, []*regexp.Regexp{
		regexp.MustCompile(`综合服务|混合服务|软硬件一体`),
		regexp.MustCompile(`(?i)mixed\s+services?`),
	}},
}

func detectContractType(text string) *domain.ContractType {
	var best domain.ContractType
	bestScore := 0
	for _, entry := range contractTypeKeywords {
		score := 0
		for _, pattern := range entry.patterns {
			score += len(pattern.FindAllStringIndex(text, -1))
		}
		if score > bestScore {
			bestScore = score
			best = entry.category
		}
	}
	if bestScore == 0 {
		return nil
	}
	return &best
}

// Empirical classification thresholds, kept as-is for behavioral
// compatibility. Tunable, not principled.
const (
	zhCJKRatioMin       = 0.7
	zhLatinRatioMax     = 0.1
	enLatinRatioMin     = 0.7
	enCJKRatioMax       = 0.1
	bilingualCJKMin     = 0.15
	bilingualLatinMin   = 0.3
	latinTokenCharsUnit = 5.0
)

func detectLanguage(text string) *domain.Language {
	nonSpace := 0
	cjk := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		nonSpace++
		if unicode.Is(unicode.Han, r) {
			cjk++
		}
	}
	if nonSpace == 0 {
		return nil
	}

	cjkRatio := float64(cjk) / float64(nonSpace)
	tokens := len(latinTokens.FindAllString(text, -1))
	latinRatio := float64(tokens) / (float64(nonSpace) / latinTokenCharsUnit)

	var lang domain.Language
	switch {
	case cjkRatio > zhCJKRatioMin && latinRatio < zhLatinRatioMax:
		lang = domain.LanguageChinese
	case latinRatio > enLatinRatioMin && cjkRatio < enCJKRatioMax:
		lang = domain.LanguageEnglish
	case cjkRatio > bilingualCJKMin && latinRatio > bilingualLatinMin:
		lang = domain.LanguageBilingual
	case cjkRatio >= latinRatio:
		lang = domain.LanguageChinese
	default:
		lang = domain.LanguageEnglish
	}
	return &lang
}

// Extract never fails: every field is independently nullable and a fully
// shaped structure comes back even for empty input.
func (e *IdentificationExtractor) Extract(text string) domain.ContractIdentification {
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return domain.ContractIdentification{}
	}
	return domain.ContractIdentification{
		ContractNumber:    contractNumberSpec.extract(text),
		ContractTitle:     contractTitleSpec.extract(text),
		ContractType:      detectContractType(text),
		SubType:           subTypeSpec.extract(text),
		VersionNumber:     versionNumberSpec.extract(text),
		EffectiveLanguage: detectLanguage(text),
	}
}

// Confidence is the weighted fraction of non-null identification fields.
func (e *IdentificationExtractor) Confidence(id domain.ContractIdentification) float64 {
	score := 0.0
	if id.ContractNumber != nil {
		score += 0.25
	}
	if id.ContractTitle != nil {
		score += 0.20
	}
	if id.ContractType != nil {
		score += 0.20
	}
	if id.SubType != nil {
		score += 0.10
	}
	if id.VersionNumber != nil {
		score += 0.10
	}
	if id.EffectiveLanguage != nil {
		score += 0.15
	}
	return score
}
