package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/kousei/pkg/core"
	"github.com/leapstack-labs/kousei/pkg/guideline"
)

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("severity", validateSeverity)
	_ = configValidate.RegisterValidation("mode", validateMode)
	_ = configValidate.RegisterValidation("guideline", validateGuideline)
}

func validateSeverity(fl validator.FieldLevel) bool {
	_, ok := core.ParseSeverity(fl.Field().String())
	return ok
}

func validateMode(fl validator.FieldLevel) bool {
	_, ok := guideline.DefaultCatalog().Mode(guideline.ModeID(fl.Field().String()))
	return ok
}

func validateGuideline(fl validator.FieldLevel) bool {
	return guideline.DefaultCatalog().Has(guideline.ID(fl.Field().String()))
}

// Validate checks the configuration. Each violated constraint becomes one
// line of the returned error.
func (c *Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "\n"))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "severity":
		return fmt.Sprintf("%s: unknown severity %q (want error, warning or info)", field, fe.Value())
	case "mode":
		return fmt.Sprintf("%s: unknown mode %q (want %s)", field, fe.Value(), strings.Join(modeNames(), ", "))
	case "guideline":
		return fmt.Sprintf("%s: unknown guideline %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s: %v is not one of %s", field, fe.Value(), fe.Param())
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

func modeNames() []string {
	modes := guideline.DefaultCatalog().Modes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m.ID)
	}
	return out
}
