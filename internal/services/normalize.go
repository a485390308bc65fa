package services

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernameCharset = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// credentials carries trimmed registration input through the validator.
type credentials struct {
	Username string `validate:"min=3,max=32,usernamechars"`
	Password string `validate:"min=6,max=72"`
}

// normalizer trims raw input and checks it against the length and charset rules.
type normalizer struct {
	validate *validator.Validate
}

func newNormalizer() *normalizer {
	v := validator.New()
	// Registration only fails for an empty tag name or nil func.
	_ = v.RegisterValidation("usernamechars", func(fl validator.FieldLevel) bool {
		return usernameCharset.MatchString(fl.Field().String())
	})
	return &normalizer{validate: v}
}

// credentials returns the normalized pair, or ok=false when either part is invalid.
func (n *normalizer) credentials(username, password string) (credentials, bool) {
	c := credentials{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}
	if err := n.validate.Struct(c); err != nil {
		return credentials{}, false
	}
	return c, true
}

func (n *normalizer) friendName(name string) (string, bool) {
	return n.text(name, "required,max=80")
}

func (n *normalizer) ideaText(text string) (string, bool) {
	return n.text(text, "required,max=400")
}

func (n *normalizer) text(raw, rules string) (string, bool) {
	clean := strings.TrimSpace(raw)
	if err := n.validate.Var(clean, rules); err != nil {
		return "", false
	}
	return clean, true
}
