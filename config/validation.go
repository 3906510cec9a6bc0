package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct tag rules and the cross-field constraints that tags
// cannot express. Failures are reported as *ConfigError values, joined when
// there is more than one.
func Validate(cfg *Config) error {
	if cfg == nil {
		return NewValidationError("", "config is nil")
	}

	var errs []error
	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		for _, fe := range validationErrors {
			errs = append(errs, fromFieldError(fe))
		}
	}

	if cfg.Retry.MaxDelay > 0 && cfg.Retry.MaxDelay < cfg.Retry.BaseDelay {
		errs = append(errs, &ConfigError{
			Category: "invalid",
			Field:    "retry.maxdelay",
			Message:  fmt.Sprintf("must not be lower than retry.basedelay (%s)", cfg.Retry.BaseDelay),
			Action:   "set " + envVarFor("retry.maxdelay") + " or raise retry.maxdelay in the config file",
		})
	}
	if cfg.Client.Auth.Type != "" && cfg.Client.Auth.Type != "none" && cfg.Client.Auth.Token == "" {
		errs = append(errs, &ConfigError{
			Category: "missing",
			Field:    "client.auth.token",
			Message:  "required when client.auth.type is " + cfg.Client.Auth.Type,
			Action:   "set " + envVarFor("client.auth.token"),
		})
	}

	return errors.Join(errs...)
}

// fromFieldError converts a validator failure into a ConfigError keyed by
// the koanf path of the field.
func fromFieldError(fe validator.FieldError) *ConfigError {
	field := koanfPath(fe.Namespace())

	switch fe.Tag() {
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("unsupported value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	case "url":
		return NewValidationError(field, "must be an absolute URL")
	case "gte":
		return NewValidationError(field, "must be at least "+fe.Param())
	case "lte":
		return NewValidationError(field, "must be at most "+fe.Param())
	default:
		return NewValidationError(field, "failed "+fe.Tag()+" validation")
	}
}

// koanfPath turns "Config.client.retry.statuscodes[0]" into
// "client.retry.statuscodes[0]".
func koanfPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}
