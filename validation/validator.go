// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Option configures a [Validator].
type Option func(*Validator) error

// Validator checks structs against their `validate` tags.
// It is safe for concurrent use once constructed.
type Validator struct {
	validate  *validator.Validate
	messages  map[string]string
	maxErrors int
}

// WithCustomTag registers a custom validation tag.
//
// Example:
//
//	validation.WithCustomTag("slug", func(fl validator.FieldLevel) bool {
//	    return slugRE.MatchString(fl.Field().String())
//	})
func WithCustomTag(name string, fn validator.Func) Option {
	return func(v *Validator) error {
		if err := v.validate.RegisterValidation(name, fn); err != nil {
			return fmt.Errorf("register tag %q: %w", name, err)
		}
		return nil
	}
}

// WithMessages overrides the message used for the given tags.
func WithMessages(messages map[string]string) Option {
	return func(v *Validator) error {
		for tag, msg := range messages {
			v.messages[tag] = msg
		}
		return nil
	}
}

// WithMaxErrors caps the number of field errors reported. Zero means no cap.
func WithMaxErrors(n int) Option {
	return func(v *Validator) error {
		if n < 0 {
			return fmt.Errorf("max errors must not be negative, got %d", n)
		}
		v.maxErrors = n
		return nil
	}
}

// New returns a validator. Field paths use `json` tag names when present.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		messages: map[string]string{
			"required": "is required",
			"email":    "must be a valid email address",
			"min":      "must be at least %s",
			"max":      "must be at most %s",
			"gte":      "must be greater than or equal to %s",
			"lte":      "must be less than or equal to %s",
			"oneof":    "must be one of [%s]",
		},
	}
	v.validate.RegisterTagNameFunc(jsonFieldName)

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustNew: %v", err))
	}
	return v
}

// Validate checks v, which must be a struct or a non-nil pointer to one.
// Failures are returned as an [*Error].
func (v *Validator) Validate(val any) error {
	if val == nil {
		return ErrCannotValidateNilValue
	}
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ErrCannotValidateNilValue
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := v.validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		if v.maxErrors > 0 && len(out.Fields) >= v.maxErrors {
			break
		}
		out.Fields = append(out.Fields, FieldError{
			Path:    fieldPath(fe.Namespace()),
			Code:    "tag." + fe.Tag(),
			Message: v.message(fe),
			Param:   fe.Param(),
		})
	}
	out.Sort()
	return out
}

func (v *Validator) message(fe validator.FieldError) string {
	tmpl, ok := v.messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

// fieldPath drops the root type name from a validator namespace:
// "CreateUser.address.city" becomes "address.city".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}
