package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	alphaSpaceRe = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailShapeRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe      = regexp.MustCompile(`[A-Z]`)
	lowerRe      = regexp.MustCompile(`[a-z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
	specialRe    = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

	// now is swapped in tests.
	now = time.Now
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("alphaspace", alphaSpace)         //nolint:errcheck
	_ = v.RegisterValidation("nodoublespace", noDoubleSpace)   //nolint:errcheck
	_ = v.RegisterValidation("emailshape", emailShape)         //nolint:errcheck
	_ = v.RegisterValidation("dateonly", dateOnly)             //nolint:errcheck
	_ = v.RegisterValidation("notfuture", notFuture)           //nolint:errcheck
	_ = v.RegisterValidation("hasupper", matches(upperRe))     //nolint:errcheck
	_ = v.RegisterValidation("haslower", matches(lowerRe))     //nolint:errcheck
	_ = v.RegisterValidation("hasdigit", matches(digitRe))     //nolint:errcheck
	_ = v.RegisterValidation("hasspecial", matches(specialRe)) //nolint:errcheck
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Var validates a single value against a tag string.
func (cv *CustomValidator) Var(field interface{}, tag string) error {
	return cv.validator.Var(field, tag)
}

func alphaSpace(fl validator.FieldLevel) bool {
	return alphaSpaceRe.MatchString(fl.Field().String())
}

func noDoubleSpace(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return !strings.Contains(s, "  ") && s == strings.TrimSpace(s)
}

func emailShape(fl validator.FieldLevel) bool {
	return emailShapeRe.MatchString(fl.Field().String())
}

// matches passes when re finds at least one match anywhere in the field.
func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func dateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// notFuture compares calendar days in UTC; unparsable values are left to dateonly.
func notFuture(fl validator.FieldLevel) bool {
	d, err := time.Parse(time.DateOnly, fl.Field().String())
	if err != nil {
		return true
	}
	y, m, day := now().UTC().Date()
	return !d.After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
}
