package actions

import (
	"fmt"
	"os"
	"strings"
)

const InputPrefix = "INPUT_"

// Source resolves raw values by environment-style name.
type Source interface {
	Lookup(name string) (string, bool)
}

// EnvSource reads the process environment.
type EnvSource struct{}

func (EnvSource) Lookup(name string) (string, bool) { return os.LookupEnv(name) }

// MapSource is a fixed set of values, handy for tests and local runs.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// InputEnvName maps an input name to the variable the runner exports it as:
// "fail-on-issues" -> INPUT_FAIL-ON-ISSUES.
func InputEnvName(name string) string {
	return InputPrefix + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// GetInput returns the trimmed input value, "" when unset.
func GetInput(src Source, name string) string {
	v, _ := src.Lookup(InputEnvName(name))
	return strings.TrimSpace(v)
}

// LookupBoolean recognizes the YAML 1.2 core schema spellings only.
func LookupBoolean(v string) (value, ok bool) {
	switch strings.TrimSpace(v) {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

func ParseBoolean(name, v string) (bool, error) {
	b, ok := LookupBoolean(v)
	if !ok {
		return false, fmt.Errorf("input %q does not meet YAML 1.2 \"Core Schema\" specification: %q (support true | True | TRUE | false | False | FALSE)", name, v)
	}
	return b, nil
}

// GetBooleanInput returns def when the input is unset or empty.
func GetBooleanInput(src Source, name string, def bool) (bool, error) {
	v := GetInput(src, name)
	if v == "" {
		return def, nil
	}
	return ParseBoolean(name, v)
}
