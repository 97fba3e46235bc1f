package config

import (
	"reflect"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// MissingEnvError lists required environment variables that were not set.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return "missing env vars: " + strings.Join(e.Keys, ", ")
}

// InvalidEnvError lists environment variables whose values failed validation.
type InvalidEnvError struct {
	Keys []string
}

func (e *InvalidEnvError) Error() string {
	return "invalid env vars: " + strings.Join(e.Keys, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures by env var name rather than Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks that every value the configured provider and target need is present and well-formed.
// Sections that the current mode never touches are skipped, so a file-target dry run
// does not demand WordPress credentials.
func (c Config) Validate() error {
	targets := []any{c.Publish, c.Schedule}
	if err := validate.Var(c.Provider, "oneof=apifootball fixture"); err != nil {
		return &InvalidEnvError{Keys: []string{envProvider}}
	}
	if c.Provider == ProviderAPIFootball {
		targets = append(targets, c.APIFootball)
	}
	if c.Publish.Target == TargetWordPress {
		targets = append(targets, c.WordPress)
	}

	var missing, invalid []string
	for _, target := range targets {
		err := validate.Struct(target)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(err, "validate config")
		}
		for _, fe := range verrs {
			key, _, _ := strings.Cut(fe.Field(), "[")
			if fe.Tag() == "required" || fe.Tag() == "required_if" {
				missing = appendUnique(missing, key)
				continue
			}
			invalid = appendUnique(invalid, key)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingEnvError{Keys: missing}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &InvalidEnvError{Keys: invalid}
	}
	return nil
}

func appendUnique(list []string, key string) []string {
	for _, existing := range list {
		if existing == key {
			return list
		}
	}
	return append(list, key)
}
