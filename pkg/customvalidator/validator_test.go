package customvalidator

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone      string           `validate:"uae_phone"`
	EmiratesID string           `validate:"emirates_id"`
	Passport   string           `validate:"passport_id"`
	Salary     decimal.Decimal  `validate:"decimal_gt0"`
	Price      decimal.Decimal  `validate:"decimal_gte0"`
	Bonus      *decimal.Decimal `validate:"omitempty,decimal_gt0"`
	Comment    null.String      `validate:"omitempty,max=5"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func valid() sample {
	return sample{
		Phone:      "+971501234567",
		EmiratesID: "784-1990-1234567-1",
		Passport:   "N1234567",
		Salary:     decimal.NewFromInt(4500),
		Price:      decimal.Zero,
	}
}

func TestCustomValidations(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Struct(valid()))

	negativeBonus := decimal.NewFromInt(-1)
	cases := map[string]func(s *sample){
		"phone":       func(s *sample) { s.Phone = "12345" },
		"emirates id": func(s *sample) { s.EmiratesID = "123-456" },
		"passport":    func(s *sample) { s.Passport = "!!" },
		"zero salary": func(s *sample) { s.Salary = decimal.Zero },
		"neg price":   func(s *sample) { s.Price = decimal.NewFromInt(-3) },
		"neg bonus":   func(s *sample) { s.Bonus = &negativeBonus },
		"long note":   func(s *sample) { s.Comment = null.StringFrom("too long") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid()
			mutate(&s)
			assert.Error(t, v.Struct(s))
		})
	}
}
