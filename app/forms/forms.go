// Package forms decodes url-encoded and multipart form submissions into structs and
// reports per-field errors in the shape the HTML templates render.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"

	"github.com/mytheresa/content-portal/models"
)

// NonField is the key for errors that do not belong to one field.
const NonField = "__all__"

const (
	MsgRequired = "This field is required."
	MsgInvalid  = "Enter a valid value."
)

// DateLayouts are the accepted layouts for time fields, tried in order.
var DateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	d.RegisterConverter(time.Time{}, func(s string) reflect.Value {
		t, err := ParseTime(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(t)
	})
	d.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		v, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(v)
	})
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ParseTime parses s with the first matching layout of DateLayouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Errors maps form field names to their messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message of field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the names of fields with errors, sorted.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return strings.Join(parts, "; ")
}

// Decode fills dst from values and validates it with its `validate` tags.
// It returns nil when the submission is valid.
func Decode(dst any, values url.Values) Errors {
	errs := Errors{}

	if err := decoder.Decode(dst, values); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			for key := range multi {
				errs.Add(key, MsgInvalid)
			}
		} else {
			errs.Add(NonField, err.Error())
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add(NonField, err.Error())
			return errs
		}
		for _, fe := range verrs {
			if errs.Has(fe.Field()) {
				// a conversion error already explains this field
				continue
			}
			errs.Add(fe.Field(), message(fe))
		}
	}

	if errs.Empty() {
		return nil
	}
	return errs
}

// FromError converts model validation failures into form errors. ok is false when err is
// not a validation failure.
func FromError(err error) (errs Errors, ok bool) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return nil, false
	}
	field := verr.Field
	if field == "" {
		field = NonField
	}
	return Errors{field: {verr.Message}}, true
}

// Check validates one value against validator rules, e.g. "required,max=30", and returns
// the message of the first failed rule or "".
func Check(value any, rules string) string {
	err := validate.Var(value, rules)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0])
	}
	return err.Error()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		if s, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(s))
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if s, ok := fe.Value().(string); ok {
			return fmt.Sprintf("Ensure this value has at least %s characters (it has %d).", fe.Param(), utf8.RuneCountInString(s))
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "oneof":
		return "Select a valid choice. That choice is not one of the available choices."
	case "hexcolor":
		return "Enter a valid color."
	default:
		return MsgInvalid
	}
}
