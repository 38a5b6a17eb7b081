package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError describes a rejected config source. Syntax errors carry a
// position; value errors carry the offending key.
type ValidationError struct {
	Source  string
	Line    int
	Column  int
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	case e.Key != "":
		return fmt.Sprintf("%s: %s %s", e.Source, e.Key, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
}

// yaml.v3 reports syntax errors as "yaml: line N: reason".
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.+)$`)

// checkYAMLFile rejects a config file that is not well-formed YAML before
// koanf sees it, so the user gets a line number instead of a parser trace.
func checkYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ValidationError{Source: path, Message: err.Error()}
	}
	return checkYAML(data, path)
}

func checkYAML(data []byte, source string) error {
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}

	vErr := &ValidationError{Source: source, Message: err.Error()}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		vErr.Line, _ = strconv.Atoi(m[1])
		vErr.Column = 1
		vErr.Message = m[2]
	}
	return vErr
}

var valueValidator = newValueValidator()

// newValueValidator reports fields by their config key and registers the
// checks specific to changegen settings.
func newValueValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		return name
	})
	_ = v.RegisterValidation("bullet", isBullet)
	_ = v.RegisterValidation("notdir", func(fl validator.FieldLevel) bool {
		info, err := os.Stat(fl.Field().String())
		return err != nil || !info.IsDir()
	})
	_ = v.RegisterValidation("notfile", func(fl validator.FieldLevel) bool {
		info, err := os.Stat(fl.Field().String())
		return err != nil || info.IsDir()
	})
	return v
}

// isBullet accepts text whose every non-blank line is a markdown list item,
// the only shape that can stand alone as a release body.
func isBullet(fl validator.FieldLevel) bool {
	seen := false
	for _, line := range strings.Split(fl.Field().String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "- ") || strings.TrimSpace(line[2:]) == "" {
			return false
		}
		seen = true
	}
	return seen
}

// ValidateConfigValues checks the merged configuration and returns the first
// problem as a *ValidationError keyed by config name.
func ValidateConfigValues(cfg *Configuration, source string) error {
	err := valueValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Source: source, Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{Source: source, Key: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be a positive duration (e.g., 30s)"
	case "bullet":
		return `must be a markdown list ("- ..." on every line)`
	case "notdir":
		return "points to a directory, expected a file"
	case "notfile":
		return "points to a file, expected a directory"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
