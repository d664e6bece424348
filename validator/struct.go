package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// messages holds the text for each tag used by request bodies. Length tags
// read differently for strings and numbers.
var messages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"oneof":    "The field '%s' must be one of: %s.",
}

var sizeMessages = map[string][2]string{
	"min": {"The field '%s' must be at least %s characters long.", "The field '%s' must be at least %s."},
	"max": {"The field '%s' must be no longer than %s characters.", "The field '%s' must be at most %s."},
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func message(field string, e validator.FieldError) string {
	if pair, ok := sizeMessages[e.Tag()]; ok {
		msg := pair[0]
		if isNumber(e.Kind()) {
			msg = pair[1]
		}
		return fmt.Sprintf(msg, field, e.Param())
	}
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf(messages["oneof"], field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "required", "email":
		return fmt.Sprintf(messages[e.Tag()], field)
	}
	return fmt.Sprintf("The field '%s' is invalid: %s", field, e.Tag())
}

// ValidateStruct validates a struct pointer and returns JSON field names
// mapped to messages. The map is empty when s is valid.
func ValidateStruct(s any) map[string]string {
	fields := make(map[string]string)

	var errs validator.ValidationErrors
	if err := validate.Struct(s); !errors.As(err, &errs) {
		return fields
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	for _, e := range errs {
		name := e.StructField()
		if f, ok := structType.FieldByName(e.StructField()); ok {
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
				name = tag
			}
		}
		fields[name] = message(name, e)
	}
	return fields
}
