// utils/validation.go
package utils

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// phoneCountryCode replaces the trunk prefix 0 of local numbers.
var phoneCountryCode = "62"

// SetPhoneCountryCode sets the calling code used for numbers written in local
// form. An empty code leaves local numbers untouched.
func SetPhoneCountryCode(code string) {
	phoneCountryCode = strings.TrimPrefix(strings.TrimSpace(code), "+")
}

// NormalizePhone strips spaces, dashes and parentheses and rewrites a local
// number such as 0812-3456-7890 to +6281234567890.
func NormalizePhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	phone = r.Replace(strings.TrimSpace(phone))
	if phoneCountryCode != "" && strings.HasPrefix(phone, "0") && !strings.HasPrefix(phone, "00") {
		phone = "+" + phoneCountryCode + phone[1:]
	}
	return phone
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Allows + prefix followed by 2-15 digits
	return phonePattern.MatchString(NormalizePhone(phone))
}

// RegisterValidators adds the custom binding rules ("phone") to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
}
