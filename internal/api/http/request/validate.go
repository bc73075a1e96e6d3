package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

const msgFillAll = "Please fill all the field"

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports fields by their wire name so error keys match the request.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Bind binds the request into obj. On failure it writes the 422 envelope
// and returns false.
func Bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		res := invalidForm(err, c.Request.Form, obj)
		c.JSON(res.Code, res)
		return false
	}
	return true
}

// BindQuery is Bind for query parameters.
func BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		res := invalidForm(err, c.Request.URL.Query(), obj)
		c.JSON(res.Code, res)
		return false
	}
	return true
}

// invalidForm resolves form parse failures to the offending fields. gin's
// form mapping returns the bare strconv error without the field name.
func invalidForm(err error, values url.Values, obj any) result.Result {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		if fields := formTypeErrors(values, obj); len(fields) > 0 {
			return result.BadInput(fields)
		}
	}
	return Invalid(err)
}

// Invalid translates a binding error into the 422 envelope, keeping the
// first message per field. Errors with no field to point at (truncated
// bodies, a non-object body) collapse into a generic message.
func Invalid(err error) result.Result {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return result.Err(http.StatusUnprocessableEntity, msgFillAll)
		}
		return result.BadInput(map[string]string{typeErr.Field: typeMessage(typeErr.Type.Kind())})
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return result.Err(http.StatusUnprocessableEntity, msgFillAll)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if name == "" {
			return result.Err(http.StatusUnprocessableEntity, msgFillAll)
		}
		if _, seen := fields[name]; !seen {
			fields[name] = message(fe)
		}
	}
	return result.BadInput(fields)
}

// formTypeErrors reports every form field of obj whose submitted value does
// not parse as the field's scalar type.
func formTypeErrors(values url.Values, obj any) map[string]string {
	fields := map[string]string{}
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fields
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		kind := f.Type.Kind()
		if kind == reflect.Pointer {
			kind = f.Type.Elem().Kind()
		}
		if !parses(kind, raw) {
			fields[name] = typeMessage(kind)
		}
	}
	return fields
}

func parses(kind reflect.Kind, raw string) bool {
	var err error
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err = strconv.ParseInt(raw, 10, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		_, err = strconv.ParseUint(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		_, err = strconv.ParseFloat(raw, 64)
	case reflect.Bool:
		_, err = strconv.ParseBool(raw)
	}
	return err == nil
}

func typeMessage(kind reflect.Kind) string {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "value is not a valid integer"
	case reflect.Float32, reflect.Float64:
		return "value is not a valid float"
	case reflect.Bool:
		return "value could not be parsed to a boolean"
	case reflect.String:
		return "str type expected"
	default:
		return "value is not valid"
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "email":
		return "value is not a valid email address"
	case "oneof":
		return fmt.Sprintf("value is not one of: %s", fe.Param())
	default:
		return "value is not valid"
	}
}
