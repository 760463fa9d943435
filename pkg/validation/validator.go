package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the identity_* tags backed by the domain value-object rules.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs the tag name func and custom tags on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("identity_email", stringRule(entity.ValidEmail))
	_ = v.RegisterValidation("identity_password", stringRule(entity.ValidPassword))
	_ = v.RegisterValidation("identity_name", stringRule(entity.ValidName))
	_ = v.RegisterValidation("identity_user_type", func(fl validator.FieldLevel) bool {
		_, err := entity.ParseUserType(int(fl.Field().Int()))
		return err == nil
	})
	v.RegisterAlias("verify_code", "len=6,numeric")
}

func stringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "identity_email":
		return "must be a lowercase email address"
	case "identity_password":
		return "must be at least 8 characters with a letter and a digit"
	case "identity_name":
		return "must be between 1 and 20 characters"
	case "identity_user_type":
		return "must be 1 (Registered) or 2 (Guest)"
	case "verify_code":
		return "must be a 6-digit code"
	case "len":
		return "must be exactly " + param + " characters long"
	case "numeric":
		return "must be numeric"
	case "min":
		if isNumber(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumber(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of [" + strings.ReplaceAll(param, " ", ", ") + "]"
	}
	if param != "" {
		return fmt.Sprintf("failed on '%s' validation (param: %s)", tag, param)
	}
	return fmt.Sprintf("failed on '%s' validation", tag)
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
