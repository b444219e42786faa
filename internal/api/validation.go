package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	registerOnce    sync.Once
)

// RegisterValidators adds the custom binding rules used by request types
// and reports field errors under their JSON names. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("tagcolor", func(fl validator.FieldLevel) bool {
			for _, c := range models.TagColors {
				if strings.EqualFold(c, fl.Field().String()) {
					return true
				}
			}
			return false
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return usernamePattern.MatchString(name) && !strings.EqualFold(name, "me")
		})
	})
}

// bindJSON decodes the body into obj, attaching a *service.ValidationError
// to the context on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		fail(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var (
		verrs     validator.ValidationErrors
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		fe := verrs[0]
		return &service.ValidationError{Field: fe.Field(), Message: ruleMessage(fe)}
	case errors.As(err, &typeErr):
		return &service.ValidationError{Field: typeErr.Field, Message: fmt.Sprintf("must be a %s", typeErr.Type)}
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &service.ValidationError{Message: "request body must be valid JSON"}
	default:
		return &service.ValidationError{Message: err.Error()}
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "tagcolor":
		return fmt.Sprintf("must be one of %s", strings.Join(models.TagColors, ", "))
	case "slug":
		return "may contain only letters, numbers, underscores or hyphens"
	case "username":
		return "may contain only letters, digits and @/./+/-/_ and must not be \"me\""
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
