package dto

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/examapp/internal/model"
)

// RegisterValidations installs the custom binding rules on gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("option_label", func(fl validator.FieldLevel) bool {
		return model.IsOptionLabel(fl.Field().String())
	})
}

// ValidationMessage flattens validator errors into one readable line.
func ValidationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "option_label":
		return fmt.Sprintf("%s must be one of A, B, C or D", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	}
	return fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag())
}
