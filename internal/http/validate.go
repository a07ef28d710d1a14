package httpserver

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Clark-Hu/filmdb/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// columnRules are validator tags applied to non-null values per writable column.
var columnRules = map[string]string{
	"title":       "max=255",
	"description": "max=255",
	"trailer":     "omitempty,max=255,url",
	"year":        "gte=1800,lte=3000",
	"rating":      "gte=0,lte=10",
	"genre_id":    "gte=1",
	"director_id": "gte=1",
	"name":        "max=255",
}

// validateAssignments checks every present, non-null value against its column rule.
func validateAssignments(fields []domain.Assignment) error {
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		tag, ok := columnRules[f.Column]
		if !ok {
			continue
		}
		if err := validate.Var(f.Value, tag); err != nil {
			return describeValidationError(f.Column, err)
		}
	}
	return nil
}

func describeValidationError(column string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%s is invalid: %w", column, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return fmt.Errorf("%s must be at most %s characters", column, fe.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", column)
	case "gte":
		return fmt.Errorf("%s must be greater than or equal to %s", column, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be less than or equal to %s", column, fe.Param())
	default:
		return fmt.Errorf("%s failed the %s rule", column, fe.Tag())
	}
}
