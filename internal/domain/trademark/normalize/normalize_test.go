package normalize

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBasic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"ひらがな", "ヒラガナ"},
		{"sony", "SONY"},
		{"ＳＯＮＹ", "SONY"},
		{"ｿﾆｰ", "ソニ"},
		{"ｶﾞﾝﾀﾞﾑ", "ガンダム"},
		{"ソニー", "ソニ"},
		{"ソ ニ ー", "ソニ"},
		{"ソ　ニ　ー", "ソニ"},
		{"ソニー▲", "ソニ"},
		{"ソニー、株式会社", "ソニ株式会社"},
		{"α-ブロッカー", "Aブロッカ"},
		{"θεος", "THEOS"},
		{"會社", "会社"},
		{"Ⅲ世代", "3世代"},
		{"ⅹ", "10"},
		{"“Quote”", "QUOTE"},
		{"ＳＯＮＹ・ブランド", "SONYブランド"},
		{"テスト＼サンプル", "テストサンプル"},
		{"Mr. Bean!", "MRBEAN!"},
		{"漢字そのまま", "漢字ソノママ"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Basic(tc.in), "Basic(%q)", tc.in)
	}
}

func TestPronunciation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"チヂミ", "チジミ"},
		{"ヴェール", "ベル"},
		{"フィルム", "ヒルム"},
		{"エイコー", "エコ"},
		{"コーヒー", "コヒ"},
		{"ヴル", "ブル"},
		{"ゔぃーなす", "ビナス"},
		{"ティーチャー", "チチヤ"},
		{"ウォーター", "オタ"},
		{"ジェット", "ゼット"},
		{"キャッツ", "キヤッツ"},
		{"ヲタク", "オタク"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Pronunciation(tc.in), "Pronunciation(%q)", tc.in)
	}
}

func TestPronunciation_ReachesFixedPoint(t *testing.T) {
	t.Parallel()

	// small ェ only becomes エ in the first pass; エイ collapses in the second
	assert.Equal(t, "エ", Pronunciation("ェイ"))
	// トゥ → ツ exposes ツェ
	assert.Equal(t, "テ", Pronunciation("トゥェ"))
}

var idempotenceCorpus = []string{
	"", " ", "ブルドッグ", "ぶるどっぐ", "ヴル", "ＳＯＮＩＣｏｏｌ＼ソニクール", "ｶﾞﾝﾀﾞﾑ",
	"α-ブロッカー", "Ⅻ世紀", "µ-Tech", "ΣΟΦΙΑ", "ェイ", "トゥェ", "デューク・ヴィーナス",
	"Apple Inc.", "株式会社", "一般財団法人日本特許情報機構", "※★限定★※", "カ・゛",
	"ファッション　ウィーク", "ツィツィ", "ヴュー", "ｳｨﾝﾄﾞｳｽﾞ", "❄SNOW❄", "\t\n",
}

// normalizerAlphabet mixes the rune classes the tables act on with runes whose
// case mapping lands on a table key, plus combining marks that compose.
var normalizerAlphabet = []rune("aZz09 　-ー－ｰ‐・。、,.'\"“”▲★☆＼\\あかがぱカガヷｶｳﾞﾟＡｚ０" +
	"αβθςΣΘϐϑϕϰϱϵµΆάᾳ國學ⅰⅫßǅſıİK\u0345\u0301\u0308\u3099\u309a")

func randomNormalizerInput(r *rand.Rand) string {
	n := r.Intn(12)
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = normalizerAlphabet[r.Intn(len(normalizerAlphabet))]
	}
	return string(rs)
}

func idempotent(fn func(string) string) func(string) bool {
	return func(s string) bool {
		once := fn(s)
		return fn(once) == once
	}
}

func quickConfig() *quick.Config {
	return &quick.Config{
		MaxCount: 5000,
		Values: func(args []reflect.Value, r *rand.Rand) {
			args[0] = reflect.ValueOf(randomNormalizerInput(r))
		},
	}
}

func TestBasic_Idempotent(t *testing.T) {
	t.Parallel()
	for _, s := range idempotenceCorpus {
		once := Basic(s)
		assert.Equal(t, once, Basic(once), "Basic not idempotent for %q", s)
	}
	// Greek symbol variants upper-case onto table keys.
	for in, want := range map[string]string{"ϐ": "B", "ϑ": "TH", "ϕ": "F", "\u0345": "I", "ς": "S"} {
		assert.Equal(t, want, Basic(in), "Basic(%q)", in)
	}
	assert.NoError(t, quick.Check(idempotent(Basic), quickConfig()))
}

func TestPronunciation_IdempotentAndNonLengthening(t *testing.T) {
	t.Parallel()
	for _, s := range idempotenceCorpus {
		basic := Basic(s)
		once := Pronunciation(s)
		assert.Equal(t, once, Pronunciation(once), "Pronunciation not idempotent for %q", s)
		assert.LessOrEqual(t, utf8.RuneCountInString(once), utf8.RuneCountInString(basic), "lengthened %q", s)
	}
}

func TestPronunciationRules_NeverLengthen(t *testing.T) {
	t.Parallel()
	for _, r := range PronunciationRules() {
		assert.LessOrEqual(t, utf8.RuneCountInString(r.To), utf8.RuneCountInString(r.From), r.From)
	}
}

func TestPronunciationRules_DigraphsPrecedeTheirSubstrings(t *testing.T) {
	t.Parallel()
	rules := PronunciationRules()
	for i, longer := range rules {
		if utf8.RuneCountInString(longer.From) < 2 {
			continue
		}
		for j := 0; j < i; j++ {
			shorter := rules[j]
			if utf8.RuneCountInString(shorter.From) == 1 && strings.Contains(longer.From, shorter.From) {
				t.Errorf("rule %q at %d is shadowed by %q at %d", longer.From, i, shorter.From, j)
			}
		}
	}
}

func TestPronunciationRules_ReturnsCopy(t *testing.T) {
	t.Parallel()
	rules := PronunciationRules()
	rules[0] = Rule{From: "x", To: "y"}
	assert.NotEqual(t, "x", PronunciationRules()[0].From)
}

func TestBasicRules_MirrorsBasic(t *testing.T) {
	t.Parallel()

	rs := BasicRules()
	assert.NotEmpty(t, rs.Translate)
	assert.NotEmpty(t, rs.Delete)
	assert.NotEmpty(t, rs.Expand)

	deleted := make(map[string]bool)
	for _, d := range rs.Delete {
		assert.False(t, deleted[d], "duplicate delete %q", d)
		deleted[d] = true
		assert.Equal(t, "", Basic(d), "delete rule %q", d)
	}
	for _, r := range rs.Translate {
		assert.False(t, deleted[r.From], "%q both translated and deleted", r.From)
		assert.Equal(t, 1, utf8.RuneCountInString(r.From))
		assert.Equal(t, 1, utf8.RuneCountInString(r.To))
		assert.Equal(t, Basic(r.To), Basic(r.From), "translate rule %q", r.From)
	}
	for _, r := range rs.Expand {
		assert.Greater(t, utf8.RuneCountInString(r.To), 1)
		assert.Equal(t, r.To, Basic(r.From), "expand rule %q", r.From)
	}
}

func TestTrademarkRules_MirrorsTrademark(t *testing.T) {
	t.Parallel()

	rs := TrademarkRules()
	for _, d := range rs.Delete {
		assert.Equal(t, "", Trademark(d), "delete rule %q", d)
	}
	for _, r := range rs.Translate {
		assert.Equal(t, 1, utf8.RuneCountInString(r.From))
		assert.Equal(t, Trademark(r.To), Trademark(r.From), "translate rule %q", r.From)
	}
	for _, r := range rs.Expand {
		assert.Equal(t, r.To, Trademark(r.From), "expand rule %q", r.From)
	}
	assert.Contains(t, rs.Translate, Rule{From: "ー", To: "-"})
}

func TestApplicantName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"ソニー株式会社", "ソニ"},
		{"トヨタ自動車株式会社", "トヨタ自動車"},
		{"パナソニック株式会社", "パナソニック"},
		{"株式会社 日立製作所", "日立製作所"},
		{"Apple Inc.", "APPLE"},
		{"apple inc.", "APPLE"},
		{"Microsoft Corporation", "MICROSOFT"},
		{"Google LLC", "GOOGLE"},
		{"Acme, Ltd.", "ACME"},
		{"一般財団法人日本特許情報機構", "日本特許情報機構"},
		{"有限会社テスト", "テスト"},
		{"合同会社サンプル", "サンプル"},
		{"株式会社", "株式"},
		{"法人", "法人"},
		{"Company", "COMPANY"},
		// Latin designations need a word boundary
		{"HELP", "HELP"},
		{"Telco.", "TELCO"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ApplicantName(tc.in), "ApplicantName(%q)", tc.in)
	}
}

func TestApplicantName_NoPhoneticFolding(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ヴィナス", ApplicantName("ヴィーナス株式会社"))
}

func TestTrademark(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"ソニー株式会社", "ソニ-株式会社"},
		{"ＳＯＮＹ・ブランド", "ＳＯＮＹ・ブランド"},
		{"テスト《限定版》", "テスト《限定版》"},
		{"サンプル▲マーク", "サンプルマ-ク"},
		{"商品名、価格表示", "商品名価格表示"},
		{"Ⅲ世代プロダクト", "3世代プロダクト"},
		{"テスト＼サンプル", "テストサンプル"},
		{"そにー", "ソニ-"},
		{"big apple", "BIGAPPLE"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Trademark(tc.in), "Trademark(%q)", tc.in)
	}
}

func TestTrademark_Idempotent(t *testing.T) {
	t.Parallel()
	for _, s := range idempotenceCorpus {
		once := Trademark(s)
		assert.Equal(t, once, Trademark(once), "Trademark not idempotent for %q", s)
	}
	assert.Equal(t, "TH", Trademark("ϑ"))
	assert.NoError(t, quick.Check(idempotent(Trademark), quickConfig()))
}

func TestSplitComponents(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"ＳＯＮＩＣｏｏｌ", "ソニクール", "ＳＯＮＩＣｏｏｌソニクール"},
		SplitComponents("ＳＯＮＩＣｏｏｌ＼ソニクール"))
	assert.Equal(t, []string{"テスト", "商品", "テスト商品"}, SplitComponents("テスト＼商品"))
	assert.Equal(t, []string{"ABC", "DEF", "ABCDEF"}, SplitComponents(`ABC\DEF`))
	assert.Equal(t, []string{"単一商標"}, SplitComponents("単一商標"))
	assert.Equal(t, []string{"左"}, SplitComponents("左＼"))
	assert.Nil(t, SplitComponents(""))
	assert.Nil(t, SplitComponents("＼"))
}

func TestConcurrentUse(t *testing.T) {
	t.Parallel()

	done := make(chan string, 16)
	for i := 0; i < 16; i++ {
		go func() { done <- Pronunciation("ヴァイオリン") + ApplicantName("Apple Inc.") }()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, "バイオリンAPPLE", <-done)
	}
}

//Personal.AI order the ending
