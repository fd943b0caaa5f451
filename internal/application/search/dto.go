package search

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/query"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CriteriaDTO is the wire form of query.Criteria.
type CriteriaDTO struct {
	ApplicationNumber string `json:"application_number,omitempty" validate:"omitempty,max=32"`
	MarkText          string `json:"mark_text,omitempty" validate:"omitempty,max=256"`
	ApplicantName     string `json:"applicant_name,omitempty" validate:"omitempty,max=256"`
	Classification    string `json:"classification,omitempty" validate:"omitempty,max=256"`
	DesignatedGoods   string `json:"designated_goods,omitempty" validate:"omitempty,max=1024"`
	SimilarGroupCodes string `json:"similar_group_codes,omitempty" validate:"omitempty,max=256"`
}

// SearchRequestDTO is the wire form of SearchRequest used by the HTTP API
// and the CLI.
type SearchRequestDTO struct {
	Criteria CriteriaDTO `json:"criteria"`
	Mode     string      `json:"mode,omitempty" validate:"omitempty,max=64"`
	Limit    *int        `json:"limit,omitempty" validate:"omitempty,min=0"`
	Offset   int         `json:"offset,omitempty" validate:"min=0"`
	Order    string      `json:"order,omitempty" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Criteria converts the DTO.
func (c CriteriaDTO) Criteria() query.Criteria {
	return query.Criteria{
		ApplicationNumber: c.ApplicationNumber,
		MarkText:          c.MarkText,
		ApplicantName:     c.ApplicantName,
		Classification:    c.Classification,
		DesignatedGoods:   c.DesignatedGoods,
		SimilarGroupCodes: c.SimilarGroupCodes,
	}
}

// ToRequest validates the DTO shape and converts it. Criteria semantics are
// checked later by the service.
func (d SearchRequestDTO) ToRequest() (SearchRequest, error) {
	if err := validate.Struct(d); err != nil {
		return SearchRequest{}, validationError(err)
	}
	mode, err := query.ParseMode(d.Mode)
	if err != nil {
		return SearchRequest{}, err
	}
	order, err := trademark.ParseOrder(d.Order, trademark.OrderAsc)
	if err != nil {
		return SearchRequest{}, err
	}
	return SearchRequest{
		Criteria: d.Criteria.Criteria(),
		Mode:     mode,
		Limit:    d.Limit,
		Offset:   d.Offset,
		Order:    order,
	}, nil
}

// validationError flattens validator failures into one InvalidCriteria.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.CodeInvalidCriteria, "invalid search request")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.InvalidCriteria("invalid search request: " + strings.Join(msgs, "; "))
}

//Personal.AI order the ending
