package options

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

const (
	choiceErrorTemplateConstant    = "Value for option %s must be one of %s"
	boolTypeErrorTemplateConstant  = "Invalid type %#v for option %s; use 1/0, yes/no, true/false, on/off"
	boolValueErrorTemplateConstant = "Invalid value %#v for option %s; use 1/0, yes/no, true/false, on/off"
	intTypeErrorTemplateConstant   = "Invalid type %#v for option %s; you must give an integer value"
	intValueErrorTemplateConstant  = "Invalid value %#v for option %s; you must give an integer value"
	listTypeErrorTemplateConstant  = "Invalid type %#v for option %s; you must give a list value"
	decodeErrorTemplateConstant    = "decode options: %w"
	choiceListSeparatorConstant    = ", "
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "yes": {}, "true": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "no": {}, "false": {}, "off": {}}
)

// Values holds raw option values keyed by option name.
type Values map[string]any

// OptionError reports an option whose value cannot be coerced.
type OptionError struct {
	Option  string
	Message string
}

// Error returns the coercion failure message.
func (optionError *OptionError) Error() string {
	return optionError.Message
}

func newOptionError(option string, template string, arguments ...any) *OptionError {
	return &OptionError{Option: option, Message: fmt.Sprintf(template, arguments...)}
}

func (values Values) lookup(option string, defaultValue any) any {
	if value, present := values[option]; present {
		return value
	}
	return defaultValue
}

// Choice returns the string value of option when it is one of allowed.
// With normalizeCase the value is lowercased before comparison.
func (values Values) Choice(option string, allowed []string, defaultValue string, normalizeCase bool) (string, error) {
	candidate, conversionError := cast.ToStringE(values.lookup(option, defaultValue))
	if conversionError == nil {
		if normalizeCase {
			candidate = strings.ToLower(candidate)
		}
		for _, allowedValue := range allowed {
			if candidate == allowedValue {
				return candidate, nil
			}
		}
	}
	return "", newOptionError(option, choiceErrorTemplateConstant, option, strings.Join(allowed, choiceListSeparatorConstant))
}

// Bool interprets booleans, integers and the literals 1/0, yes/no, true/false and on/off.
func (values Values) Bool(option string, defaultValue any) (bool, error) {
	rawValue := values.lookup(option, defaultValue)
	switch typedValue := rawValue.(type) {
	case bool:
		return typedValue, nil
	case string:
		normalizedValue := strings.ToLower(typedValue)
		if _, isTrue := trueLiterals[normalizedValue]; isTrue {
			return true, nil
		}
		if _, isFalse := falseLiterals[normalizedValue]; isFalse {
			return false, nil
		}
		return false, newOptionError(option, boolValueErrorTemplateConstant, typedValue, option)
	}
	if isInteger(rawValue) {
		integerValue, _ := cast.ToInt64E(rawValue)
		return integerValue != 0, nil
	}
	return false, newOptionError(option, boolTypeErrorTemplateConstant, rawValue, option)
}

// Int converts integers, integral floats and decimal strings.
func (values Values) Int(option string, defaultValue any) (int, error) {
	rawValue := values.lookup(option, defaultValue)
	switch typedValue := rawValue.(type) {
	case nil:
		return 0, newOptionError(option, intTypeErrorTemplateConstant, rawValue, option)
	case string:
		integerValue, conversionError := strconv.Atoi(strings.TrimSpace(typedValue))
		if conversionError != nil {
			return 0, newOptionError(option, intValueErrorTemplateConstant, typedValue, option)
		}
		return integerValue, nil
	}
	integerValue, conversionError := cast.ToIntE(rawValue)
	if conversionError != nil {
		return 0, newOptionError(option, intTypeErrorTemplateConstant, rawValue, option)
	}
	return integerValue, nil
}

// List splits strings on whitespace and copies slices of any element type as strings.
func (values Values) List(option string, defaultValue any) ([]string, error) {
	rawValue := values.lookup(option, defaultValue)
	if stringValue, isString := rawValue.(string); isString {
		return strings.Fields(stringValue), nil
	}
	if rawValue == nil || reflect.TypeOf(rawValue).Kind() != reflect.Slice {
		return nil, newOptionError(option, listTypeErrorTemplateConstant, rawValue, option)
	}
	listValue, conversionError := cast.ToStringSliceE(rawValue)
	if conversionError != nil {
		return nil, newOptionError(option, listTypeErrorTemplateConstant, rawValue, option)
	}
	return append([]string{}, listValue...), nil
}

// Decode fills target from values using mapstructure tags and weak typing.
func Decode(values Values, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if decoderError != nil {
		return fmt.Errorf(decodeErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(map[string]any(values)); decodeError != nil {
		return fmt.Errorf(decodeErrorTemplateConstant, decodeError)
	}
	return nil
}

func isInteger(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
