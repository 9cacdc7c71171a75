package extraction

import (
	"testing"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

func TestContractNumberExtraction(t *testing.T) {
	e := NewIdentificationExtractor()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"chinese label", "合同编号：CTR-2026-001\n", "CTR-2026-001"},
		{"agreement label", "协议编号：AGR/2026/17\n", "AGR/2026/17"},
		{"english label", "Contract No.: SA-2026-042\n", "SA-2026-042"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := e.Extract(tc.text)
			if id.ContractNumber == nil || *id.ContractNumber != tc.want {
				t.Fatalf("ContractNumber = %v, want %q", id.ContractNumber, tc.want)
			}
		})
	}
}

func TestContractNumberRejectsFillerValues(t *testing.T) {
	e := NewIdentificationExtractor()

	for _, text := range []string{
		"合同编号：CTR-____\n",
		"合同编号：000-000\n",
		"合同编号：AB\n",
	} {
		if id := e.Extract(text); id.ContractNumber != nil {
			t.Fatalf("Extract(%q).ContractNumber = %q, want nil", text, *id.ContractNumber)
		}
	}
}

func TestContractTitleFromBookQuotes(t *testing.T) {
	e := NewIdentificationExtractor()

	id := e.Extract("双方签署《软件开发服务合同》如下。")
	if id.ContractTitle == nil || *id.ContractTitle != "软件开发服务合同" {
		t.Fatalf("ContractTitle = %v", id.ContractTitle)
	}
}

func TestDetectContractType(t *testing.T) {
	cases := []struct {
		name string
		text string
		want *domain.ContractType
	}{
		{"project outsourcing", "本项目为软件开发及系统集成服务。", typePtr(domain.TypeProjectOutsourcing)},
		{"staff augmentation", "乙方提供人力外包及驻场开发人员。", typePtr(domain.TypeStaffAugmentation)},
		{"product sales", "双方就产品销售事宜签订本销售合同。", typePtr(domain.TypeProductSales)},
		{"declaration order breaks ties", "涉及人力外包与软件开发。", typePtr(domain.TypeStaffAugmentation)},
		{"no keyword hits", "本合同自签订之日起生效。", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectContractType(tc.text)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("detectContractType() = %q, want nil", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("detectContractType() = %v, want %q", got, *tc.want)
			}
		})
	}
}

func typePtr(t domain.ContractType) *domain.ContractType { return &t }

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.Language
	}{
		{"chinese", "本合同由甲方与乙方协商一致后签署并自签署之日起生效。", domain.LanguageChinese},
		{"english", "This Agreement is made and entered into by and between the parties hereto.", domain.LanguageEnglish},
		{"bilingual", "本合同由甲方与乙方签订 signed by Party A and Party B on the agreed date hereof.", domain.LanguageBilingual},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectLanguage(tc.text)
			if got == nil || *got != tc.want {
				t.Fatalf("detectLanguage() = %v, want %q", got, tc.want)
			}
		})
	}

	if got := detectLanguage("   "); got != nil {
		t.Fatalf("detectLanguage(blank) = %q, want nil", *got)
	}
}

func TestIdentificationExtractEndToEnd(t *testing.T) {
	e := NewIdentificationExtractor()

	id := e.Extract("合同编号：CTR-2026-001\n软件开发服务合同\n版本号：V1.2\n")

	if id.ContractNumber == nil || *id.ContractNumber != "CTR-2026-001" {
		t.Fatalf("ContractNumber = %v", id.ContractNumber)
	}
	if id.ContractTitle == nil || *id.ContractTitle != "软件开发服务合同" {
		t.Fatalf("ContractTitle = %v", id.ContractTitle)
	}
	if id.ContractType == nil || *id.ContractType != domain.TypeProjectOutsourcing {
		t.Fatalf("ContractType = %v", id.ContractType)
	}
	if id.VersionNumber == nil || *id.VersionNumber != "V1.2" {
		t.Fatalf("VersionNumber = %v", id.VersionNumber)
	}
	if id.EffectiveLanguage == nil || *id.EffectiveLanguage != domain.LanguageChinese {
		t.Fatalf("EffectiveLanguage = %v", id.EffectiveLanguage)
	}

	confidence := e.Confidence(id)
	if confidence <= 0 || confidence > 1 {
		t.Fatalf("Confidence = %v, want in (0, 1]", confidence)
	}
}

func TestIdentificationExtractEmptyText(t *testing.T) {
	e := NewIdentificationExtractor()

	id := e.Extract("   \n\t")
	if id != (domain.ContractIdentification{}) {
		t.Fatalf("expected zero identification, got %+v", id)
	}
	if c := e.Confidence(id); c != 0 {
		t.Fatalf("Confidence = %v, want 0", c)
	}
}
