package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

// TermExtractor recovers the contract lifecycle dates, the duration and the
// renewal terms.
type TermExtractor struct{}

func NewTermExtractor() *TermExtractor {
	return &TermExtractor{}
}

// Anchor-date context keywords. Each date is searched in a fixed forward
// window after the first keyword occurrence.
var (
	executionKeyword    = regexp.MustCompile(`签订日期|签署日期|签约日期|签订于|(?i:date\s+of\s+execution|signed\s+on)`)
	effectiveKeyword    = regexp.MustCompile(`生效日期|生效时间|(?i:effective\s+date)`)
	commencementKeyword = regexp.MustCompile(`开始日期|起始日期|合同有效期|有效期限|履行期限|(?i:commencement\s+date)`)
	terminationKeyword  = regexp.MustCompile(`终止日期|截止日期|到期日期?|届满日|(?i:termination\s+date|expir(?:y|ation)\s+date)`)
)

// Duration patterns require an explicit term keyword so bare years inside
// date literals never match. Arabic digits only: Chinese numeral durations
// (十二个月) are not recognized.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:合同期限|服务期限|合作期限|有效期限|履行期限|租赁期限)[^0-9\n]{0,10}([0-9]{1,3})\s*个?\s*(年|月|日|天)`),
	regexp.MustCompile(`期限为\s*([0-9]{1,3})\s*个?\s*(年|月|日|天)`),
	regexp.MustCompile(`(?i)(?:term|period)\s+of\s+([0-9]{1,3})\s*(years?|months?|days?)`),
}

var (
	autoRenewKeyword   = regexp.MustCompile(`自动续约|自动续签|自动延长|自动顺延|(?i:automatic(?:ally)?\s+renew|auto-?renew)`)
	renewalTermPattern = regexp.MustCompile(`(?:自动续约|自动续签|自动延长|自动顺延|续约期限?[:]?)\s*([0-9]{1,3}\s*个?\s*(?:年|月|日|天))`)
	noticePattern      = regexp.MustCompile(`提前\s*([0-9]{1,3})\s*个?\s*(年|月|日|天)`)
)

func (e *TermExtractor) Extract(text string) domain.ContractTerm {
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return domain.ContractTerm{}
	}

	term := domain.ContractTerm{
		ExecutionDate:    findDateNear(text, executionKeyword),
		EffectiveDate:    findDateNear(text, effectiveKeyword),
		CommencementDate: findDateNear(text, commencementKeyword),
		TerminationDate:  findDateNear(text, terminationKeyword),
	}

	// A date-range expression backfills whatever the direct keyword search
	// missed: effective and commencement from the range start, termination
	// from the range end.
	if m := dateRange.FindStringSubmatch(text); m != nil {
		if start, ok := normalizeDate(m[1]); ok {
			if term.EffectiveDate == nil {
				term.EffectiveDate = &start
			}
			if term.CommencementDate == nil {
				term.CommencementDate = &start
			}
		}
		if end, ok := normalizeDate(m[2]); ok && term.TerminationDate == nil {
			term.TerminationDate = &end
		}
	}

	term.Duration = extractDuration(text)
	term.Renewal = extractRenewal(text)
	return term
}

func extractDuration(text string) *domain.Duration {
	for _, pattern := range durationPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.Atoi(m[1])
		if err != nil || value <= 0 {
			continue
		}
		return &domain.Duration{Value: value, Unit: durationUnit(m[2])}
	}
	return nil
}

func durationUnit(token string) domain.DurationUnit {
	switch strings.TrimSuffix(strings.ToLower(token), "s") {
	case "年", "year":
		return domain.UnitYear
	case "月", "month":
		return domain.UnitMonth
	default:
		return domain.UnitDay
	}
}

// extractRenewal is gated on an automatic-renewal keyword: without one the
// result is nil no matter what other term data is present. The renewal-term
// literal and notice period are both optional extras.
func extractRenewal(text string) *domain.RenewalTerms {
	if !autoRenewKeyword.MatchString(text) {
		return nil
	}
	renewal := &domain.RenewalTerms{AutomaticRenewal: true}
	if m := renewalTermPattern.FindStringSubmatch(text); m != nil {
		literal := stripSpaces(m[1])
		renewal.RenewalTerm = &literal
	}
	if m := noticePattern.FindStringSubmatch(text); m != nil {
		if value, err := strconv.Atoi(m[1]); err == nil && value > 0 {
			renewal.NoticePeriod = &domain.Duration{Value: value, Unit: durationUnit(m[2])}
		}
	}
	return renewal
}

func (e *TermExtractor) Confidence(t domain.ContractTerm) float64 {
	score := 0.0
	if t.ExecutionDate != nil {
		score += 0.20
	}
	if t.EffectiveDate != nil {
		score += 0.15
	}
	if t.CommencementDate != nil {
		score += 0.15
	}
	if t.TerminationDate != nil {
		score += 0.15
	}
	if t.Duration != nil {
		score += 0.20
	}
	if t.Renewal != nil {
		score += 0.15
	}
	return score
}
