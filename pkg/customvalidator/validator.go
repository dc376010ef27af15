package customvalidator

import (
	"reflect"
	"regexp"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	uaePhoneRegex   = regexp.MustCompile(`^(\+971|00971|0)5\d{8}$`)
	emiratesIDRegex = regexp.MustCompile(`^784-?\d{4}-?\d{7}-?\d$`)
	passportRegex   = regexp.MustCompile(`^[A-Za-z0-9]{6,12}$`)
)

// RegisterCustomValidations регистрирует наши правила и учит валидатор
// заглядывать внутрь decimal и null-обёрток.
func RegisterCustomValidations(v *validator.Validate) error {
	registerWrappedTypes(v)

	rules := map[string]validator.Func{
		"uae_phone":    isUAEPhone,
		"emirates_id":  isEmiratesID,
		"passport_id":  isPassportID,
		"decimal_gt0":  isDecimalPositive,
		"decimal_gte0": isDecimalNonNegative,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func isUAEPhone(fl validator.FieldLevel) bool {
	return uaePhoneRegex.MatchString(fl.Field().String())
}

func isEmiratesID(fl validator.FieldLevel) bool {
	return emiratesIDRegex.MatchString(fl.Field().String())
}

func isPassportID(fl validator.FieldLevel) bool {
	return passportRegex.MatchString(fl.Field().String())
}

func decimalOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	return decimal.Zero, false
}

func isDecimalPositive(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	return ok && d.IsPositive()
}

func isDecimalNonNegative(fl validator.FieldLevel) bool {
	d, ok := decimalOf(fl)
	return ok && !d.IsNegative()
}

func registerWrappedTypes(v *validator.Validate) {
	// decimal.Decimal валидируем как строку, чтобы "required" и
	// теги decimal_* видели значение.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Uint64); ok && val.Valid {
			return val.Uint64
		}
		return nil
	}, null.Uint64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
