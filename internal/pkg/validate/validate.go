package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator shared by configuration loading
// and request decoding.
var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates the given struct using its validate tags.
// Returns one error listing every failed field, or nil.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), rule))
	}
	return errors.New(strings.Join(msgs, "; "))
}
