package config

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"aiready-action/internal/actions"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-viper/mapstructure/v2"
)

const (
	InputToken                 = "token"
	InputFailOnIssues          = "fail-on-issues"
	InputMaxIssues             = "max-issues"
	InputMinScore              = "min-score"
	InputPaths                 = "paths"
	InputExclude               = "exclude"
	InputOutputFormat          = "output-format"
	InputSimulateOnMissingTool = "simulate-on-missing-tool"
	InputMaxOutputSize         = "max-output-size"
	InputCLICommand            = "cli-command"
	InputConfig                = "config"

	EnvToken          = "GITHUB_TOKEN"
	DefaultCLICommand = "npx @aiready/cli"
)

// Inputs lists every step input decoded into Config.
var Inputs = []string{
	InputToken,
	InputFailOnIssues,
	InputMaxIssues,
	InputMinScore,
	InputPaths,
	InputExclude,
	InputOutputFormat,
	InputSimulateOnMissingTool,
	InputMaxOutputSize,
	InputCLICommand,
}

func defaults() map[string]any {
	return map[string]any{
		InputToken:                 "",
		InputFailOnIssues:          false,
		InputMaxIssues:             10,
		InputMinScore:              70,
		InputPaths:                 ".",
		InputExclude:               "",
		InputOutputFormat:          string(FormatSummary),
		InputSimulateOnMissingTool: false,
		InputMaxOutputSize:         "10MB",
		InputCLICommand:            DefaultCLICommand,
	}
}

// Resolve builds the run configuration. Later layers win: defaults, the YAML
// file named by the config input, step inputs from src, then overrides
// (keyed by input name, typically command line flags). Empty values never
// override.
func Resolve(src actions.Source, overrides map[string]string) (Config, error) {
	raw := defaults()
	source := "defaults"

	path := overrides[InputConfig]
	if strings.TrimSpace(path) == "" {
		path = actions.GetInput(src, InputConfig)
	}
	if path != "" {
		f, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		for k, v := range f.Inputs {
			if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
			if v == nil {
				continue
			}
			raw[k] = v
		}
		source = path
	}

	for _, name := range Inputs {
		if v := actions.GetInput(src, name); v != "" {
			raw[name] = v
		}
	}
	for name, v := range overrides {
		if name == InputConfig || strings.TrimSpace(v) == "" {
			continue
		}
		raw[name] = strings.TrimSpace(v)
	}
	if s, _ := raw[InputToken].(string); s == "" {
		if v, ok := src.Lookup(EnvToken); ok {
			raw[InputToken] = v
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(boolInputHook, intInputHook),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid inputs: %w", err)
	}
	cfg.Source = source
	cfg.Debug = actions.IsDebug(src)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.OutputFormat {
	case FormatSummary, FormatJSON, FormatBoth:
	default:
		return fmt.Errorf("unsupported output-format: %s (expected summary, json or both)", c.OutputFormat)
	}
	n, err := ParseSizeToBytes(c.MaxOutputSize)
	if err != nil {
		return fmt.Errorf("invalid max-output-size: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("invalid max-output-size: %s must be positive", c.MaxOutputSize)
	}
	c.MaxOutputBytes = n
	if !doublestar.ValidatePattern(c.Paths) {
		return fmt.Errorf("invalid paths pattern: %s", c.Paths)
	}
	for _, p := range c.ExcludePatterns() {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern: %s", p)
		}
	}
	if len(c.CommandArgs()) == 0 {
		return fmt.Errorf("cli-command is empty")
	}
	return nil
}

func boolInputHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if b, ok := actions.LookupBoolean(s); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%q is not a boolean (support true | True | TRUE | false | False | FALSE)", s)
}

// intInputHook reads integers in base 10 only and rejects fractions.
func intInputHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		s := strings.TrimSpace(reflect.ValueOf(data).String())
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a base-10 integer", s)
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		f := reflect.ValueOf(data).Float()
		if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
		return int(f), nil
	}
	return data, nil
}
