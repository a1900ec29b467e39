package services

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidators installs the date and time tags shared by request
// binding and the service layer.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, ok := normalizeClock(fl.Field().String())
		return ok
	})
}

func normalizeClock(value string) (string, bool) {
	for _, layout := range []string{timeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(timeLayout), true
		}
	}
	return "", false
}

func validDate(value string) bool {
	return validate.Var(value, "isodate") == nil
}

func validEmail(value string) bool {
	return validate.Var(value, "required,email,max=254") == nil
}

func checkText(verr *ValidationError, field, value string, max int, required bool) {
	if value == "" {
		if required {
			verr.add(field, "this field may not be blank")
		}
		return
	}
	if len([]rune(value)) > max {
		verr.add(field, "ensure this field has no more than "+itoa(max)+" characters")
	}
}
