package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"innkeep/shared/daterange"
	"innkeep/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// registerDateValidation accepts YYYY-MM-DD calendar dates.
func registerDateValidation(field val.FieldLevel) bool {
	_, err := daterange.ParseDate(field.Field().String())

	return err == nil
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	rules := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		"isodate": registerDateValidation,
	}

	for tag, rule := range rules {
		if err := validate.RegisterValidation(tag, rule); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

// ValidateUUID checks an identifier taken from the path or query before it reaches a uuid column.
func ValidateUUID(name, value string) error {
	if err := validate.Var(value, "required,uuid"); err != nil {
		return failure.BadRequestFromString(strings.ReplaceAll(messages["uuid"], "{field}", name)) //nolint:wrapcheck
	}

	return nil
}
