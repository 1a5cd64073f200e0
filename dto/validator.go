package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var certificateNumberRegex = regexp.MustCompile(`^EC-[0-9]+-[0-9a-z]{9}$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("certificate_number", validateCertificateNumber)
	validate.RegisterValidation("role", validateRole)
}

func GetValidator() *validator.Validate {
	return validate
}

// Validate runs struct validation on v.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

func validateCertificateNumber(fl validator.FieldLevel) bool {
	return certificateNumberRegex.MatchString(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "STUDENT", "INSTRUCTOR", "ADMIN":
		return true
	}
	return false
}

// IsCertificateNumber reports whether s has the EC-<millis>-<suffix> shape.
func IsCertificateNumber(s string) bool {
	return certificateNumberRegex.MatchString(s)
}

type ValidationError struct {
	Field   string `json:"field" example:"enrollmentId"`
	Message string `json:"message" example:"enrollmentId is required"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "email":
				message = "Invalid email format"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "url":
				message = fieldError.Field() + " must be a valid URL"
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			case "role":
				message = fieldError.Field() + " must be one of: STUDENT INSTRUCTOR ADMIN"
			case "certificate_number":
				message = "Invalid certificate number"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}
