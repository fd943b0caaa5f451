// Package sqlregistry implements trademark.Registry over the relational
// registry schema. Predicate trees are translated into EXISTS subqueries with
// go-sqlbuilder; the normal forms are computed in SQL by a Dialect.
package sqlregistry

import (
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
)

// SQL function names the SQLite driver registers for the normal forms.
const (
	FuncBasic         = "tm_normalize_basic"
	FuncPronunciation = "tm_normalize_pronunciation"
	FuncTrademark     = "tm_normalize_trademark"
)

// Dialect renders a column in one of the comparison forms.
type Dialect interface {
	Name() string
	Flavor() sqlbuilder.Flavor
	// FormExpr returns an expression over col in form f. The result is
	// embedded in go-sqlbuilder format strings, so any literal '$' is
	// already doubled.
	FormExpr(col string, f query.Form) string
	// Like is the substring operator. It ignores the case of Latin letters.
	Like() string
}

// ----------------------------------------------------------------------------
// SQLite
// ----------------------------------------------------------------------------

type sqliteDialect struct{}

// SQLite computes every form with Go functions registered on the connection,
// so matches are exact. Its LIKE folds ASCII case only.
func SQLite() Dialect { return sqliteDialect{} }

func (sqliteDialect) Name() string              { return "sqlite" }
func (sqliteDialect) Flavor() sqlbuilder.Flavor { return sqlbuilder.SQLite }
func (sqliteDialect) Like() string              { return "LIKE" }

func (sqliteDialect) FormExpr(col string, f query.Form) string {
	switch f {
	case query.FormBasic:
		return FuncBasic + "(" + col + ")"
	case query.FormPronunciation:
		return FuncPronunciation + "(" + col + ")"
	case query.FormTrademark:
		return FuncTrademark + "(" + col + ")"
	default:
		return col
	}
}

// ----------------------------------------------------------------------------
// PostgreSQL
// ----------------------------------------------------------------------------

const colToken = "\x00col\x00"

type postgresDialect struct {
	basic     string
	pron      string
	trademark string
}

// Postgres builds TRANSLATE/REPLACE chains from the normalizer tables.
// Half-width katakana folding and the repeated pronunciation passes have no
// native equivalent, so the forms approximate the Go normalizer.
func Postgres() Dialect {
	basic := ruleChain(normalize.BasicRules())

	pron := basic
	for _, r := range normalize.PronunciationRules() {
		pron = "REPLACE(" + pron + ", " + literal(r.From) + ", " + literal(r.To) + ")"
	}

	return postgresDialect{
		basic:     escapeDollar(basic),
		pron:      escapeDollar(pron),
		trademark: escapeDollar(ruleChain(normalize.TrademarkRules())),
	}
}

// ruleChain renders rules over colToken as UPPER(TRANSLATE(REPLACE...)).
func ruleChain(rules normalize.BasicRuleSet) string {
	var from, to strings.Builder
	for _, r := range rules.Translate {
		from.WriteString(r.From)
		to.WriteString(r.To)
	}
	for _, d := range rules.Delete {
		from.WriteString(d)
	}

	expr := colToken
	for _, r := range rules.Expand {
		expr = "REPLACE(" + expr + ", " + literal(r.From) + ", " + literal(r.To) + ")"
	}
	expr = "TRANSLATE(" + expr + ", " + literal(from.String()) + ", " + literal(to.String()) + ")"
	return "UPPER(" + expr + ")"
}

func (postgresDialect) Name() string              { return "postgres" }
func (postgresDialect) Flavor() sqlbuilder.Flavor { return sqlbuilder.PostgreSQL }
func (postgresDialect) Like() string              { return "ILIKE" }

func (d postgresDialect) FormExpr(col string, f query.Form) string {
	switch f {
	case query.FormBasic:
		return strings.ReplaceAll(d.basic, colToken, col)
	case query.FormPronunciation:
		return strings.ReplaceAll(d.pron, colToken, col)
	case query.FormTrademark:
		return strings.ReplaceAll(d.trademark, colToken, col)
	default:
		return col
	}
}

// literal quotes s as a standard SQL string literal.
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func escapeDollar(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// likeEscaper escapes LIKE metacharacters for ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

//Personal.AI order the ending
