package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their json names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// FieldErrors maps each failed field to a readable message.
func FieldErrors(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[fieldPath(e)] = fieldMessage(e)
	}
	return fields
}

// fieldPath drops the root struct name, e.g. "medications[0].name".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "gt":
		return "must be greater than " + e.Param()
	case "dive":
		return "is invalid"
	}
	return "failed on the '" + e.Tag() + "' rule"
}

// BindAndValidate binds the request body to a struct and validates it.
// If binding fails, it sends the error response and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(obj); err != nil {
		if fields := FieldErrors(err); fields != nil {
			ValidationFailed(c, fields)
			return false
		}
		BadRequest(c, "Invalid request payload")
		return false
	}
	return true
}
