package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidatorOnce sync.Once
	structValidator     *validator.Validate
	customTags          = map[string]validator.Func{}
	customTagsMu        sync.Mutex
)

// RegisterTag adds a custom struct tag. Must be called before the first
// Struct validation, typically from a domain package init.
func RegisterTag(tag string, fn func(value string) bool) {
	customTagsMu.Lock()
	defer customTagsMu.Unlock()
	customTags[tag] = func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}
}

func structs() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		customTagsMu.Lock()
		for tag, fn := range customTags {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
		customTagsMu.Unlock()
		structValidator = v
	})
	return structValidator
}

// Struct runs validate tags on payload and records each failing field.
func (v *Validator) Struct(payload any) {
	err := structs().Struct(payload)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.Add("", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), reasonFor(fe))
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must have at most " + fe.Param() + " characters"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "eg_iban":
		return "must be EG followed by 2 digits and 29 letters or digits"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
