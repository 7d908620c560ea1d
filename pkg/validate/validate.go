package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)
)

// Validator collects field-level errors at the handler boundary before any
// business logic runs. The first failing rule per field wins.
type Validator struct {
	errs map[string]string
}

func New() *Validator {
	return &Validator{errs: make(map[string]string)}
}

func (v *Validator) add(field, msg string) {
	if _, exists := v.errs[field]; !exists {
		v.errs[field] = msg
	}
}

func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

func (v *Validator) Email(field, value string) *Validator {
	if value != "" && !emailRe.MatchString(value) {
		v.add(field, "must be a valid email address")
	}
	return v
}

func (v *Validator) Phone(field, value string) *Validator {
	if value != "" && !phoneRe.MatchString(value) {
		v.add(field, "must be a valid phone number in international format")
	}
	return v
}

func (v *Validator) MinLen(field, value string, n int) *Validator {
	if value != "" && len(value) < n {
		v.add(field, fmt.Sprintf("must be at least %d characters", n))
	}
	return v
}

func (v *Validator) MaxLen(field, value string, n int) *Validator {
	if len(value) > n {
		v.add(field, fmt.Sprintf("must be at most %d characters", n))
	}
	return v
}

func (v *Validator) Failed() bool {
	return len(v.errs) > 0
}

func (v *Validator) Errors() map[string]string {
	return v.errs
}
