package sqlregistry

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
)

// Core table every candidate query selects from.
const (
	coreTable = "jiken_c_t j"
	coreKey   = "j.normalized_app_num"
)

// applicantLink joins a case to its applicant codes. Only applicants
// (identifier '1') are considered, agents are ignored.
const applicantLink = "jiken_c_t_shutugannindairinin ap"

// column locates a Field in the schema: the FROM clause of its correlated
// subquery, the column compared, and the condition tying it to the case.
type column struct {
	from   string
	col    string
	anchor string
}

var columns = map[query.Field]column{
	query.FieldStandardCharacter: {
		from: "standard_char_t_art s", col: "s.standard_char_t",
		anchor: "s.normalized_app_num = " + coreKey,
	},
	query.FieldDisplay: {
		from: "indct_use_t_art iu", col: "iu.indct_use_t",
		anchor: "iu.normalized_app_num = " + coreKey,
	},
	query.FieldSearchForm: {
		from: "search_use_t_art_table su", col: "su.search_use_t",
		anchor: "su.normalized_app_num = " + coreKey,
	},
	query.FieldPhonetic: {
		from: "t_dsgnt_art td", col: "td.dsgnt",
		anchor: "td.normalized_app_num = " + coreKey,
	},
	query.FieldGoodsClass: {
		from: "goods_class_art gca", col: "gca.goods_classes",
		anchor: "gca.normalized_app_num = " + coreKey,
	},
	query.FieldGoodsRui: {
		from: "jiken_c_t_shohin_joho jcs", col: "jcs.rui",
		anchor: "jcs.normalized_app_num = " + coreKey,
	},
	query.FieldDesignatedGoods: {
		from: "jiken_c_t_shohin_joho jcs", col: "jcs.designated_goods",
		anchor: "jcs.normalized_app_num = " + coreKey,
	},
	query.FieldSimilarGroup: {
		from: "t_knd_info_art_table tknd", col: "tknd.smlr_dsgn_group_cd",
		anchor: "tknd.normalized_app_num = " + coreKey,
	},
	query.FieldApplicantMasterName:    applicantColumn("applicant_master_full amf", "amf.appl_cd", "amf.appl_name"),
	query.FieldApplicantMasterKana:    applicantColumn("applicant_master_full amf", "amf.appl_cd", "amf.appl_cana_name"),
	query.FieldApplicantMasterWestern: applicantColumn("applicant_master_full amf", "amf.appl_cd", "amf.wes_join_name"),
	query.FieldApplicantLegacyName:    applicantColumn("applicant_master am", "am.appl_cd", "am.appl_name"),
	query.FieldApplicantMappingName:   applicantColumn("applicant_mapping apm", "apm.applicant_code", "apm.applicant_name"),
}

func applicantColumn(table, codeCol, col string) column {
	return column{
		from: applicantLink + " JOIN " + table + " ON " + codeCol + " = ap.shutugannindairinin_code",
		col:  col,
		anchor: "ap.shutugan_no = " + coreKey +
			" AND ap.shutugannindairinin_sikbt = '1'",
	}
}

// translator renders predicate trees into WHERE expressions, binding every
// value through the builder's argument list.
type translator struct {
	dialect Dialect
	cond    *sqlbuilder.Cond
}

// expr renders n. A nil node yields "" and places no constraint.
func (t translator) expr(n query.Node) (string, error) {
	switch v := n.(type) {
	case nil:
		return "", nil
	case *query.Group:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			e, err := t.expr(c)
			if err != nil {
				return "", err
			}
			if e != "" {
				parts = append(parts, e)
			}
		}
		if len(parts) == 0 {
			if v.Op == query.OpOr {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
		if v.Op == query.OpOr {
			return t.cond.Or(parts...), nil
		}
		return t.cond.And(parts...), nil
	case query.Match:
		return t.leaf(v)
	}
	return "", fmt.Errorf("unsupported predicate node %T", n)
}

func (t translator) leaf(m query.Match) (string, error) {
	if m.Field == query.FieldApplicationNumber {
		if m.Kind != query.MatchEqual {
			return "", fmt.Errorf("application number supports equality only")
		}
		return coreKey + " = " + t.cond.Var(m.Value), nil
	}

	c, ok := columns[m.Field]
	if !ok {
		return "", fmt.Errorf("unknown field %q", m.Field)
	}
	target := t.dialect.FormExpr(c.col, m.Form)
	var test string
	if m.Kind == query.MatchEqual {
		test = target + " = " + t.cond.Var(m.Value)
	} else {
		test = target + " " + t.dialect.Like() + " " + t.cond.Var(containsPattern(m.Value)) + ` ESCAPE '\'`
	}
	return "EXISTS (SELECT 1 FROM " + c.from + " WHERE " + c.anchor + " AND " + test + ")", nil
}

//Personal.AI order the ending
