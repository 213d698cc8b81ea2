// Package validation checks the shape of incoming credentials before any I/O.
package validation

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Credentials is a signup or login request as decoded by a transport.
type Credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Rule is one constraint on one field. Check reports true when the value is
// acceptable. A nil Check marks the presence rule for the field.
type Rule struct {
	Field   string
	Check   func(string) bool
	Message string
}

var validate = validator.New()

func minLen(n int) func(string) bool {
	return func(v string) bool { return utf8.RuneCountInString(v) >= n }
}

func maxLen(n int) func(string) bool {
	return func(v string) bool { return utf8.RuneCountInString(v) <= n }
}

func email(v string) bool { return validate.Var(v, "email") == nil }

// SignupRules are evaluated in order. An empty field only reports its
// presence rule.
var SignupRules = []Rule{
	{"username", nil, "Username is required"},
	{"username", minLen(3), "Username must be at least 3 characters long"},
	{"username", maxLen(25), "Username must not exceed 25 characters"},

	{"email", nil, "Email is required"},
	{"email", email, "Email must be a valid email address"},
	{"email", maxLen(254), "Email must not exceed 254 characters"},

	{"password", nil, "Password is required"},
	{"password", minLen(6), "Password must be at least 6 characters long"},
	{"password", maxLen(50), "Password must not exceed 50 characters"},
}

func (c Credentials) field(name string) string {
	switch name {
	case "username":
		return c.Username
	case "email":
		return c.Email
	case "password":
		return c.Password
	}
	return ""
}

// Validate runs every rule against c and collects all violations.
// It returns nil when c satisfies the rules.
func Validate(c Credentials, rules []Rule) []string {
	var out []string
	for _, r := range rules {
		v := c.field(r.Field)
		switch {
		case r.Check == nil:
			if v == "" {
				out = append(out, r.Message)
			}
		case v == "":
		case !r.Check(v):
			out = append(out, r.Message)
		}
	}
	return out
}

// ValidateSignup applies SignupRules.
func ValidateSignup(c Credentials) []string {
	return Validate(c, SignupRules)
}
