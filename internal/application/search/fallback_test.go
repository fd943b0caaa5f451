package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
)

func TestDisplayMarkText_Priority(t *testing.T) {
	t.Parallel()

	all := map[trademark.VariantKind]string{
		trademark.VariantStandardCharacter: "標準",
		trademark.VariantDisplay:           "表示",
		trademark.VariantSearchForm:        "検索",
		trademark.VariantPhonetic:          "ヒョウジュン",
	}

	text, src := displayMarkText(true, all)
	assert.Equal(t, trademark.ImagePlaceholder, text)
	assert.Equal(t, trademark.VariantImage, src)

	text, src = displayMarkText(false, all)
	assert.Equal(t, "標準", text)
	assert.Equal(t, trademark.VariantStandardCharacter, src)

	text, _ = displayMarkText(false, map[trademark.VariantKind]string{
		trademark.VariantDisplay:    "表示",
		trademark.VariantSearchForm: "検索",
		trademark.VariantPhonetic:   "ケンサク",
	})
	assert.Equal(t, "検索", text)

	text, src = displayMarkText(false, map[trademark.VariantKind]string{trademark.VariantPhonetic: "ヨミ"})
	assert.Equal(t, "ヨミ", text)
	assert.Equal(t, trademark.VariantPhonetic, src)

	text, src = displayMarkText(false, map[trademark.VariantKind]string{trademark.VariantDisplay: "表示"})
	assert.Equal(t, "", text)
	assert.Equal(t, trademark.VariantKind(""), src)
}

func TestResolveApplicant_Precedence(t *testing.T) {
	t.Parallel()

	full := trademark.Applicant{
		Code:          "123456789",
		MasterName:    "マスター株式会社",
		MasterAddress: "東京都千代田区",
		LegacyName:    "旧マスター",
		Mappings:      []trademark.ApplicantMapping{{Name: "推定社", TrademarkCount: 30}},
	}

	v := resolveApplicant(full, applicantSources)
	assert.Equal(t, "マスター株式会社", v.Name)
	assert.Equal(t, "東京都千代田区", v.Address)
	assert.Equal(t, trademark.ApplicantFromMaster, v.Source)
	assert.Equal(t, trademark.ConfidenceNone, v.Confidence)

	noMaster := full
	noMaster.MasterName = "（省略）"
	v = resolveApplicant(noMaster, applicantSources)
	assert.Equal(t, "旧マスター", v.Name)
	assert.Equal(t, trademark.ApplicantFromLegacy, v.Source)

	mappingOnly := noMaster
	mappingOnly.LegacyName = "不明"
	v = resolveApplicant(mappingOnly, applicantSources)
	assert.Equal(t, "推定社 (推定)", v.Name)
	assert.Equal(t, trademark.ApplicantFromMapping, v.Source)
	assert.Equal(t, trademark.ConfidenceHigh, v.Confidence)

	codeOnly := mappingOnly
	codeOnly.Mappings = nil
	v = resolveApplicant(codeOnly, applicantSources)
	assert.Equal(t, "コード:123456789", v.Name)
	assert.Equal(t, trademark.ApplicantFromCode, v.Source)

	v = resolveApplicant(trademark.Applicant{}, applicantSources)
	assert.Equal(t, applicantValue{}, v)
}

func TestResolveApplicant_OrderIsData(t *testing.T) {
	t.Parallel()

	a := trademark.Applicant{Code: "1", MasterName: "マスター", LegacyName: "レガシー"}
	reversed := []applicantSource{applicantSources[1], applicantSources[0]}
	assert.Equal(t, "レガシー", resolveApplicant(a, reversed).Name)
}

func TestFromMapping_PicksHighestCount(t *testing.T) {
	t.Parallel()

	v, ok := fromMapping(trademark.Applicant{Mappings: []trademark.ApplicantMapping{
		{Name: "少数", TrademarkCount: 3},
		{Name: "中程度", TrademarkCount: 7, Address: "大阪府"},
		{Name: "***", TrademarkCount: 99},
	}})
	assert.True(t, ok)
	assert.Equal(t, "中程度 (推定)", v.Name)
	assert.Equal(t, "大阪府", v.Address)
	assert.Equal(t, trademark.ConfidenceMedium, v.Confidence)

	v, _ = fromMapping(trademark.Applicant{Mappings: []trademark.ApplicantMapping{
		{Name: "B社", TrademarkCount: 2},
		{Name: "A社", TrademarkCount: 2},
	}})
	assert.Equal(t, "A社 (推定)", v.Name)
	assert.Equal(t, trademark.ConfidenceLow, v.Confidence)
}

func TestClassDisplay(t *testing.T) {
	t.Parallel()

	rows := []trademark.Classification{
		{ClassNumber: "09"}, {ClassNumber: "09"}, {ClassNumber: "25"},
	}
	got, malformed := classDisplay(rows)
	assert.Equal(t, "09, 25", got)
	assert.Zero(t, malformed)

	got, malformed = classDisplay([]trademark.Classification{
		{ClassNumber: "35,9"}, {ClassNumber: "１０"}, {ClassNumber: "X1"}, {ClassNumber: ""}, {ClassNumber: "42 9"},
	})
	assert.Equal(t, "09, 10, 35, 42", got)
	assert.Equal(t, 1, malformed)

	got, _ = classDisplay(nil)
	assert.Equal(t, "", got)
}

func TestRepresentativeGoods(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "電子計算機用プログラム", representativeGoods([]trademark.Classification{
		{DesignatedGoods: "電子計算機"},
		{DesignatedGoods: "電子計算機用プログラム"},
		{DesignatedGoods: ""},
	}))
	assert.Equal(t, "あいう", representativeGoods([]trademark.Classification{
		{DesignatedGoods: "かきく"}, {DesignatedGoods: "あいう"},
	}))
	assert.Equal(t, "", representativeGoods(nil))
}

func TestSimilarGroupDisplay(t *testing.T) {
	t.Parallel()

	got, malformed := similarGroupDisplay([]trademark.SimilarGroup{
		{Codes: "11C01 09G53"},
		{Codes: "11c01"},
		{Codes: "１１Ａ０１"},
		{Codes: "1C01"},
		{Codes: "  "},
	})
	assert.Equal(t, "09G53 11A01 11C01", got)
	assert.Equal(t, 1, malformed)
}

func TestFirstVariantTexts(t *testing.T) {
	t.Parallel()

	got := firstVariantTexts([]trademark.MarkVariant{
		{Kind: trademark.VariantStandardCharacter, Text: "B"},
		{Kind: trademark.VariantStandardCharacter, Text: "A"},
		{Kind: trademark.VariantSearchForm, Text: ""},
	})
	assert.Equal(t, map[trademark.VariantKind]string{trademark.VariantStandardCharacter: "A"}, got)
}

func TestPrimaryHolder(t *testing.T) {
	t.Parallel()

	_, ok := primaryHolder(nil)
	assert.False(t, ok)

	h, ok := primaryHolder([]trademark.RightsHolder{
		{RegistrationNumber: "2"},
		{RegistrationNumber: "3", Name: "権利者C"},
		{RegistrationNumber: "1", Name: "権利者A"},
	})
	assert.True(t, ok)
	assert.Equal(t, "権利者A", h.Name)
}

//Personal.AI order the ending
