package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/types"
)

// Amount rule tags.
const (
	TagPositive    = "dgt0"
	TagNonNegative = "dgte0"
)

// RegisterValidators adds the decimal rules to v. Decimals are validated through
// their string form so the rules work on value and pointer fields alike.
// Both rules also reject digits beyond types.Scale.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation(TagPositive, func(fl validator.FieldLevel) bool {
		d, ok := fieldDecimal(fl)
		return ok && d.IsPositive() && types.FitsScale(d)
	}); err != nil {
		return err
	}
	return v.RegisterValidation(TagNonNegative, func(fl validator.FieldLevel) bool {
		d, ok := fieldDecimal(fl)
		return ok && !d.IsNegative() && types.FitsScale(d)
	})
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	if fl.Field().Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// IsAmountRule reports whether tag is one of the decimal rules.
func IsAmountRule(tag string) bool {
	return tag == TagPositive || tag == TagNonNegative
}

// FieldErrors maps each failing field to the rule it broke.
func FieldErrors(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
