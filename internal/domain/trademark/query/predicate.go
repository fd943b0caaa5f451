package query

import (
	"sort"
	"strings"
)

// Field names a logical registry column a leaf predicate applies to.
type Field string

const (
	FieldApplicationNumber Field = "application_number"

	FieldStandardCharacter Field = "mark.standard_character"
	FieldDisplay           Field = "mark.display"
	FieldSearchForm        Field = "mark.search_form"
	FieldPhonetic          Field = "mark.phonetic"

	FieldApplicantMasterName    Field = "applicant.master_name"
	FieldApplicantMasterKana    Field = "applicant.master_kana"
	FieldApplicantMasterWestern Field = "applicant.master_western"
	FieldApplicantLegacyName    Field = "applicant.legacy_name"
	FieldApplicantMappingName   Field = "applicant.mapping_name"

	FieldGoodsClass      Field = "class.goods_class"
	FieldGoodsRui        Field = "class.rui"
	FieldDesignatedGoods Field = "class.designated_goods"
	FieldSimilarGroup    Field = "similar_group.code"
)

// MarkTextFields are the textual variants searched by every mark-text mode.
var MarkTextFields = []Field{FieldStandardCharacter, FieldDisplay, FieldSearchForm}

// ApplicantFields lists every applicant identity source searched by name.
var ApplicantFields = []Field{
	FieldApplicantMasterName,
	FieldApplicantMasterKana,
	FieldApplicantMasterWestern,
	FieldApplicantLegacyName,
	FieldApplicantMappingName,
}

// Source groups fields by the registry data they need.
type Source string

const (
	SourceApplication    Source = "application"
	SourceMarkText       Source = "mark_text"
	SourceApplicant      Source = "applicant"
	SourceClassification Source = "classification"
	SourceSimilarGroup   Source = "similar_group"
)

// Source returns the data source f is read from.
func (f Field) Source() Source {
	switch {
	case f == FieldApplicationNumber:
		return SourceApplication
	case strings.HasPrefix(string(f), "mark."):
		return SourceMarkText
	case strings.HasPrefix(string(f), "applicant."):
		return SourceApplicant
	case strings.HasPrefix(string(f), "class."):
		return SourceClassification
	default:
		return SourceSimilarGroup
	}
}

// Form is the normalization applied to the column before comparison.
type Form int

const (
	// FormRaw compares the stored text. Substring matches ignore ASCII case.
	FormRaw Form = iota
	FormBasic
	FormPronunciation
	// FormTrademark applies the TM-SONAR term normalization to the column.
	FormTrademark
)

func (f Form) String() string {
	switch f {
	case FormBasic:
		return "basic"
	case FormPronunciation:
		return "pronunciation"
	case FormTrademark:
		return "trademark"
	default:
		return "raw"
	}
}

// MatchKind is the comparison performed by a leaf.
type MatchKind int

const (
	MatchSubstring MatchKind = iota
	MatchEqual
)

// Op combines the children of a Group.
type Op int

const (
	OpAnd Op = iota
	OpOr
)

func (o Op) String() string {
	if o == OpOr {
		return "OR"
	}
	return "AND"
}

// Node is either a *Group or a Match.
type Node interface {
	node()
}

// Group combines child nodes with a single operator.
type Group struct {
	Op       Op
	Children []Node
}

// Match is a leaf comparing one field in one form against a value.
type Match struct {
	Field Field
	Form  Form
	Kind  MatchKind
	Value string
}

func (*Group) node() {}
func (Match) node()  {}

// Predicate is a filter over the registry. A nil Root places no constraint.
type Predicate struct {
	Root Node
}

// Empty reports whether p constrains nothing.
func (p Predicate) Empty() bool {
	return p.Root == nil
}

// Sources returns the distinct data sources referenced by p, sorted.
func (p Predicate) Sources() []Source {
	seen := make(map[Source]struct{})
	Walk(p.Root, func(m Match) { seen[m.Field.Source()] = struct{}{} })
	out := make([]Source, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Leaves returns every Match in depth-first order.
func (p Predicate) Leaves() []Match {
	var out []Match
	Walk(p.Root, func(m Match) { out = append(out, m) })
	return out
}

// String renders p for logs and cache keys.
func (p Predicate) String() string {
	if p.Root == nil {
		return "TRUE"
	}
	var sb strings.Builder
	render(&sb, p.Root)
	return sb.String()
}

func render(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Group:
		sb.WriteString(v.Op.String())
		sb.WriteByte('(')
		for i, c := range v.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			render(sb, c)
		}
		sb.WriteByte(')')
	case Match:
		sb.WriteString(string(v.Field))
		sb.WriteByte(':')
		sb.WriteString(v.Form.String())
		if v.Kind == MatchEqual {
			sb.WriteByte('=')
		} else {
			sb.WriteByte('~')
		}
		sb.WriteString(v.Value)
	}
}

// Walk calls fn for every Match under n.
func Walk(n Node, fn func(Match)) {
	switch v := n.(type) {
	case *Group:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	case Match:
		fn(v)
	}
}

// Evaluate reports whether n holds when each leaf is decided by leaf. An empty
// AND is true and an empty OR is false; a nil node is true.
func Evaluate(n Node, leaf func(Match) bool) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Group:
		if v.Op == OpOr {
			for _, c := range v.Children {
				if Evaluate(c, leaf) {
					return true
				}
			}
			return false
		}
		for _, c := range v.Children {
			if !Evaluate(c, leaf) {
				return false
			}
		}
		return true
	case Match:
		return leaf(v)
	}
	return false
}

// newGroup builds a Group, flattening single children and dropping nil ones.
// It returns nil when nothing remains.
func newGroup(op Op, children ...Node) Node {
	kept := children[:0:0]
	for _, c := range children {
		if c == nil {
			continue
		}
		if g, ok := c.(*Group); ok && g.Op == op {
			kept = append(kept, g.Children...)
			continue
		}
		kept = append(kept, c)
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Group{Op: op, Children: kept}
}

//Personal.AI order the ending
