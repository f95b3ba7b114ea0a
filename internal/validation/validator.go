// Package validation wraps go-playground/validator with a shared instance that
// reports fields by their JSON names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldError describes the first rule a struct field failed.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required.", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s].", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed the %q rule.", e.Field, e.Tag)
	}
}

// Struct validates v and returns a *FieldError for the first failing field.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return err
}
