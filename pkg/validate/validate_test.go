package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/printipid/printipid/pkg/validate"
)

type printOptionsInput struct {
	PaperSize string  `json:"paperSize" validate:"required,in=A4,Letter,Legal,A3"`
	ColorMode string  `json:"colorMode" validate:"required,in=bw,color"`
	PaperType string  `json:"paperType" validate:"required,in=bond,glossy,matte"`
	Copies    int     `json:"copies"    validate:"required,gte=1,lte=1000"`
	Pages     int     `json:"pages"     validate:"required,gte=1,lte=10000"`
	Note      string  `json:"note"      validate:"nullable,max=500"`
	Amount    float64 `json:"amount"    validate:"required,gt=0"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(printOptionsInput{
		PaperSize: "A4",
		ColorMode: "bw",
		PaperType: "bond",
		Copies:    2,
		Pages:     10,
		Note:      "", // nullable — allowed to be empty
		Amount:    20,
	})
	assert.False(t, validate.HasErrors(errs), "expected no errors, got: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(printOptionsInput{})
	assert.True(t, validate.HasErrors(errs))
	assert.Contains(t, errs, "paperSize")
	assert.Contains(t, errs, "copies")
}

func TestInRuleWithMultiValueParam(t *testing.T) {
	errs := validate.Struct(printOptionsInput{
		PaperSize: "A5", // not in the allow-list
		ColorMode: "bw",
		PaperType: "bond",
		Copies:    1,
		Pages:     1,
		Amount:    1,
	})
	assert.Contains(t, errs, "paperSize")

	errs = validate.Struct(printOptionsInput{
		PaperSize: "Legal",
		ColorMode: "color",
		PaperType: "matte",
		Copies:    1,
		Pages:     1,
		Amount:    1,
	})
	assert.NotContains(t, errs, "paperSize")
}

func TestZeroPagesFailsValidation(t *testing.T) {
	errs := validate.Struct(printOptionsInput{
		PaperSize: "A4",
		ColorMode: "bw",
		PaperType: "bond",
		Copies:    1,
		Pages:     0,
		Amount:    1,
	})
	assert.Contains(t, errs, "pages")
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	assert.Contains(t, errs, "email")

	errs = validate.Struct(in{Email: "valid@example.com"})
	assert.False(t, validate.HasErrors(errs))
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Copies int `json:"copies" validate:"gte=1,lte=1000"`
	}
	assert.Contains(t, validate.Struct(in{Copies: 0}), "copies")
	assert.Contains(t, validate.Struct(in{Copies: 1001}), "copies")
	assert.False(t, validate.HasErrors(validate.Struct(in{Copies: 500})))
}
