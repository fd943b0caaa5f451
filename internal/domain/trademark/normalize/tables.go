package normalize

// Rule is a literal substitution applied by the normalizer.
type Rule struct {
	From string
	To   string
}

// Long-vowel marks, dash variants and hyphens. All are removed by Basic.
var dashRunes = []rune{'ー', '－', '―', '‐', '‑', '‒', '–', '—', '─', '-', 'ｰ'}

// Decorative symbols removed by Basic. '￠' and '＼' are listed together with
// their folded forms because width folding runs first.
var symbolRunes = []rune{
	'▲', '▼', '§', '￠', '¢', '＼', '\\', '∞', '※', '★', '☆', '●', '○',
	'♪', '♫', '♬', '♭', '♯', '☀', '☁', '☂', '☃', '❄', '⚡', '⛄', '⛅', '⛈',
}

// Punctuation and quotation marks removed by Basic.
var punctuationRunes = []rune{
	'。', '、', '，', ',', '.', '．', '・', '｡', '､',
	'"', '\'', '“', '”', '‘', '’',
}

// Whitespace removed by Basic in the SQL mirror. Go code uses unicode.IsSpace.
var spaceRunes = []rune{' ', '\t', '\n', '\r', '　'}

// Greek letters and similar-looking Latin signs, mapped straight to upper-case ASCII.
var greekTable = map[rune]string{
	'α': "A", 'β': "B", 'γ': "G", 'δ': "D", 'ε': "E", 'ζ': "Z", 'η': "H", 'θ': "TH",
	'ι': "I", 'κ': "K", 'λ': "L", 'μ': "M", 'ν': "N", 'ξ': "X", 'ο': "O", 'π': "P",
	'ρ': "R", 'σ': "S", 'ς': "S", 'τ': "T", 'υ': "U", 'φ': "F", 'χ': "CH", 'ψ': "PS",
	'ω': "O",
	'Α': "A", 'Β': "B", 'Γ': "G", 'Δ': "D", 'Ε': "E", 'Ζ': "Z", 'Η': "H", 'Θ': "TH",
	'Ι': "I", 'Κ': "K", 'Λ': "L", 'Μ': "M", 'Ν': "N", 'Ξ': "X", 'Ο': "O", 'Π': "P",
	'Ρ': "R", 'Σ': "S", 'Τ': "T", 'Υ': "U", 'Φ': "F", 'Χ': "CH", 'Ψ': "PS", 'Ω': "O",
	'µ': "M",
}

// Traditional kanji folded to their modern forms.
var kanjiTable = map[rune]string{
	'國': "国", '學': "学", '廣': "広", '圓': "円", '實': "実",
	'變': "変", '體': "体", '經': "経", '營': "営", '豐': "豊",
	'擧': "挙", '轉': "転", '聲': "声", '醫': "医", '爲': "為",
	'發': "発", '當': "当", '來': "来", '會': "会", '應': "応",
}

// Roman numeral code points folded to Arabic digits.
var romanTable = map[rune]string{
	'Ⅰ': "1", 'Ⅱ': "2", 'Ⅲ': "3", 'Ⅳ': "4", 'Ⅴ': "5", 'Ⅵ': "6",
	'Ⅶ': "7", 'Ⅷ': "8", 'Ⅸ': "9", 'Ⅹ': "10", 'Ⅺ': "11", 'Ⅻ': "12",
	'ⅰ': "1", 'ⅱ': "2", 'ⅲ': "3", 'ⅳ': "4", 'ⅴ': "5", 'ⅵ': "6",
	'ⅶ': "7", 'ⅷ': "8", 'ⅸ': "9", 'ⅹ': "10", 'ⅺ': "11", 'ⅻ': "12",
}

// pronunciationTable is ordered: digraphs come before any rule that rewrites
// one of their characters. Every rule has len(To) <= len(From) in runes.
var pronunciationTable = []Rule{
	// same sound, different kana
	{"ヲ", "オ"}, {"ヂ", "ジ"}, {"ヅ", "ズ"}, {"ヰ", "イ"}, {"ヱ", "エ"},

	// v-row
	{"ヴェ", "ベ"}, {"ヴァ", "バ"}, {"ヴィ", "ビ"}, {"ヴォ", "ボ"}, {"ヴュ", "ビュ"}, {"ヴ", "ブ"},

	// t/d transliterations
	{"ツィ", "チ"}, {"ティ", "チ"}, {"トゥ", "ツ"}, {"ディ", "ジ"}, {"デュ", "ジュ"}, {"ドゥ", "ズ"},

	// f-row
	{"ファ", "ハ"}, {"フィ", "ヒ"}, {"フェ", "ヘ"}, {"フォ", "ホ"}, {"フュ", "ヒュ"},

	// other near-homophones
	{"ウィ", "イ"}, {"ウェ", "エ"}, {"ウォ", "オ"},
	{"シェ", "セ"}, {"ジェ", "ゼ"}, {"チェ", "テ"}, {"ツェ", "テ"},

	// elongated vowels
	{"エイ", "エ"}, {"オウ", "オ"}, {"コウ", "コ"},

	// small kana; ッ is kept
	{"ャ", "ヤ"}, {"ュ", "ユ"}, {"ョ", "ヨ"},
	{"ァ", "ア"}, {"ィ", "イ"}, {"ゥ", "ウ"}, {"ェ", "エ"}, {"ォ", "オ"},
}

// maxPronunciationPasses bounds the fixed-point iteration.
const maxPronunciationPasses = 8

// Legal-entity designations stripped from applicant names, matched as a prefix
// or suffix. Sorted longest first at init.
var corporateForms = []string{
	"株式会社", "かぶしきがいしゃ", "カブシキガイシャ",
	"有限会社", "ゆうげんがいしゃ", "ユウゲンガイシャ",
	"合同会社", "ごうどうがいしゃ", "ゴウドウガイシャ",
	"合資会社", "ごうしがいしゃ", "ゴウシガイシャ",
	"合名会社", "ごうめいがいしゃ", "ゴウメイガイシャ",
	"一般財団法人", "いっぱんざいだんほうじん", "イッパンザイダンホウジン",
	"公益財団法人", "こうえきざいだんほうじん", "コウエキザイダンホウジン",
	"一般社団法人", "いっぱんしゃだんほうじん", "イッパンシャダンホウジン",
	"公益社団法人", "こうえきしゃだんほうじん", "コウエキシャダンホウジン",
	"医療法人", "いりょうほうじん", "イリョウホウジン",
	"学校法人", "がっこうほうじん", "ガッコウホウジン",
	"宗教法人", "しゅうきょうほうじん", "シュウキョウホウジン",
	"特定非営利活動法人", "とくていひえいりかつどうほうじん", "トクテイヒエイリカツドウホウジン",
	"ＮＰＯ法人", "エヌピーオーほうじん", "エヌピーオーホウジン",
	"協同組合", "きょうどうくみあい", "キョウドウクミアイ",
	"農業協同組合", "のうぎょうきょうどうくみあい", "ノウギョウキョウドウクミアイ",
	"漁業協同組合", "ぎょぎょうきょうどうくみあい", "ギョギョウキョウドウクミアイ",
	"生活協同組合", "せいかつきょうどうくみあい", "セイカツキョウドウクミアイ",
	"農協", "のうきょう", "ノウキョウ", "ＪＡ",
	"漁協", "ぎょきょう", "ギョキョウ",
	"生協", "せいきょう", "セイキョウ",
	"組合", "くみあい", "クミアイ",
	"財団", "ざいだん", "ザイダン",
	"社団", "しゃだん", "シャダン",
	"法人", "ほうじん", "ホウジン",
	"会社", "かいしゃ", "カイシャ",
	"Limited Liability Company", "Limited Liability Partnership", "Limited Partnership",
	"Corporation", "Incorporated", "Company", "Limited",
	"Foundation", "Association", "Organization", "Institute",
	"Corp.", "Co.", "Ltd.", "Inc.",
	"L.L.C.", "L.L.C", "LLC", "L.L.P.", "L.L.P", "LLP", "L.P.", "L.P", "LP",
}

// TM-SONAR term normalization removes only these symbols and marks.
var (
	trademarkSymbolRunes      = []rune{'▲', '▼', '§', '￠', '＼', '∞'}
	trademarkPunctuationRunes = []rune{'、', '．', '，', '"', '\'', '“', '”', '‘', '’'}
)

// ─────────────────────────────────────────────────────────────────────────────
// Exported views for the SQL boundary
// ─────────────────────────────────────────────────────────────────────────────

// BasicRuleSet describes Basic as data so a query backend can approximate it
// natively. Translate holds rune-for-rune mappings, Delete holds removed runes
// and Expand holds single runes that map to longer strings.
type BasicRuleSet struct {
	Translate []Rule
	Delete    []string
	Expand    []Rule
}

// BasicRules returns the Basic tables. Width folding of half-width katakana
// has no rune-for-rune form and is not included.
func BasicRules() BasicRuleSet {
	var rs BasicRuleSet
	deleted := make(map[rune]bool)
	del := func(r rune) {
		if !deleted[r] {
			deleted[r] = true
			rs.Delete = append(rs.Delete, string(r))
		}
	}

	for _, set := range [][]rune{dashRunes, symbolRunes, punctuationRunes, spaceRunes} {
		for _, r := range set {
			del(r)
		}
	}
	// hiragana → katakana
	for r := rune(hiraganaFirst); r <= hiraganaLast; r++ {
		rs.Translate = append(rs.Translate, Rule{From: string(r), To: string(r + kanaOffset)})
	}
	// full-width ASCII → ASCII; forms that fold onto a removed rune are removed
	for r := rune(0xFF01); r <= 0xFF5E; r++ {
		if deleted[r] {
			continue
		}
		if isRemoved(r - 0xFEE0) {
			del(r)
			continue
		}
		rs.Translate = append(rs.Translate, Rule{From: string(r), To: string(r - 0xFEE0)})
	}
	addTables(&rs)
	return rs
}

// TrademarkRules returns Trademark as data, in the same shape as BasicRules.
// Width is left alone and dash variants translate to "-".
func TrademarkRules() BasicRuleSet {
	var rs BasicRuleSet
	for _, set := range [][]rune{trademarkSymbolRunes, trademarkPunctuationRunes, spaceRunes} {
		for _, r := range set {
			rs.Delete = append(rs.Delete, string(r))
		}
	}
	for _, r := range dashRunes {
		if r != '-' {
			rs.Translate = append(rs.Translate, Rule{From: string(r), To: "-"})
		}
	}
	for r := rune(hiraganaFirst); r <= hiraganaLast; r++ {
		rs.Translate = append(rs.Translate, Rule{From: string(r), To: string(r + kanaOffset)})
	}
	addTables(&rs)
	return rs
}

func addTables(rs *BasicRuleSet) {
	for _, table := range []map[rune]string{greekTable, kanjiTable, romanTable} {
		for from, to := range table {
			if len([]rune(to)) == 1 {
				rs.Translate = append(rs.Translate, Rule{From: string(from), To: to})
			} else {
				rs.Expand = append(rs.Expand, Rule{From: string(from), To: to})
			}
		}
	}
	sortRules(rs.Translate)
	sortRules(rs.Expand)
}

// PronunciationRules returns a copy of the ordered phonetic table applied on
// top of Basic.
func PronunciationRules() []Rule {
	out := make([]Rule, len(pronunciationTable))
	copy(out, pronunciationTable)
	return out
}

//Personal.AI order the ending
