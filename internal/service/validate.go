package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"fsanano/glacierfarm/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ruleMessages maps a failed validation tag to the message returned to the
// caller. Lower index wins when several fields fail.
var ruleMessages = []struct {
	tag string
	msg func(field string) string
}{
	{"required", func(field string) string { return field + " is required" }},
	{"eqfield", func(string) string { return "passwords do not match" }},
	{"email", func(string) string { return "invalid email address" }},
	{"min", func(field string) string { return field + " is too short" }},
	{"max", func(field string) string { return field + " is too long" }},
}

// validateStruct runs the struct tags on v and converts the first failure
// into a ValidationError. Messages can be overridden per field+tag.
func validateStruct(v any, overrides map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}

	for _, rule := range ruleMessages {
		for _, fe := range fieldErrs {
			if fe.Tag() != rule.tag {
				continue
			}
			if msg, ok := overrides[fe.Field()+"."+fe.Tag()]; ok {
				return apperr.Validation(msg)
			}
			return apperr.Validation(rule.msg(lowerFirst(fe.Field())))
		}
	}
	fe := fieldErrs[0]
	return apperr.Validation(lowerFirst(fe.Field()) + " is invalid")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
