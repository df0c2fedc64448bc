package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// Validation checks request structs with validator tags. Besides the
// built-in tags it knows "money": a non-negative decimal string.
type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("money", validateMoney)
	return &Validation{validator: v}
}

func validateMoney(fl validator.FieldLevel) bool {
	var s string
	switch v := fl.Field().Interface().(type) {
	case json.Number:
		s = v.String()
	case string:
		s = v
	default:
		return false
	}
	_, err := domain.ParsePrice(s)
	return err == nil
}

// Validate returns the first violation as a ValidationError naming the JSON
// path of the offending field, or nil.
func (v *Validation) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return domain.NewValidationError("", err.Error())
	}

	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return domain.NewValidationError(field, message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "money":
		return fmt.Sprintf("%s must be a non-negative amount with at most two decimals", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on the '%s' tag", fe.Field(), fe.Tag())
	}
}

// ParseMoney converts a validated decimal field.
func ParseMoney(field string, n json.Number) (*domain.Money, error) {
	m, err := domain.ParsePrice(n.String())
	if err != nil {
		return nil, domain.NewValidationError(field, fmt.Sprintf("%s must be a non-negative amount with at most two decimals", field))
	}
	return m, nil
}
