package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

var attributeNamePattern = regexp.MustCompile(`^[A-Za-z_:@][-A-Za-z0-9_:.@]*$`)

// Config holds configuration options for the conversion
type Config struct {
	// IndentWidth is the number of spaces per nesting level
	IndentWidth int `mapstructure:"indent_width" yaml:"indent_width" validate:"min=1,max=16"`

	// UseTabs indents with one tab per level instead of spaces
	UseTabs bool `mapstructure:"use_tabs" yaml:"use_tabs"`

	// EscapePrefix is prepended to attribute names listed in ReservedNames
	EscapePrefix string `mapstructure:"escape_prefix" yaml:"escape_prefix" validate:"required,nospace"`

	// ReservedNames are attribute names that collide with reserved words of
	// the target syntax
	ReservedNames []string `mapstructure:"reserved_names" yaml:"reserved_names" validate:"dive,attrname"`

	// EscapeLiterals escapes quotes and backslashes inside string literals
	EscapeLiterals bool `mapstructure:"escape_literals" yaml:"escape_literals"`

	// Selector limits conversion to the subtrees matching a CSS selector
	Selector string `mapstructure:"selector" yaml:"selector,omitempty"`

	// Strict fails on documents that produce no output
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// Default returns four-space indentation with r# escapes for async, for and type
func Default() Config {
	return Config{
		IndentWidth:    4,
		UseTabs:        false,
		EscapePrefix:   "r#",
		ReservedNames:  []string{"async", "for", "type"},
		EscapeLiterals: false, // verbatim literals
		Selector:       "",
		Strict:         false,
	}
}

// Indent returns the string used for one nesting level
func (c Config) Indent() string {
	if c.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", c.IndentWidth)
}

// Validate checks the configuration
func (c Config) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("attrname", func(fl validator.FieldLevel) bool {
		return attributeNamePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\r\n")
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Namespace(), formatValidationError(e)))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// formatValidationError creates a human-readable error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "nospace":
		return "must not contain whitespace"
	case "attrname":
		return fmt.Sprintf("%q is not a valid attribute name", e.Value())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// YAML renders the configuration as a YAML document
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(out), nil
}
