package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatJSON    OutputFormat = "json"
	FormatBoth    OutputFormat = "both"
)

// ShowsSummary reports whether the human-readable block is logged.
func (f OutputFormat) ShowsSummary() bool { return f == FormatSummary || f == FormatBoth }

// ShowsJSON reports whether the result document is logged.
func (f OutputFormat) ShowsJSON() bool { return f == FormatJSON || f == FormatBoth }

// Config is the resolved, read-only configuration of one run.
type Config struct {
	Token                 string       `mapstructure:"token"`
	FailOnIssues          bool         `mapstructure:"fail-on-issues"`
	MaxIssues             int          `mapstructure:"max-issues"`
	MinScore              int          `mapstructure:"min-score"`
	Paths                 string       `mapstructure:"paths"`
	Exclude               string       `mapstructure:"exclude"`
	OutputFormat          OutputFormat `mapstructure:"output-format"`
	SimulateOnMissingTool bool         `mapstructure:"simulate-on-missing-tool"`
	MaxOutputSize         string       `mapstructure:"max-output-size"`
	CLICommand            string       `mapstructure:"cli-command"`

	MaxOutputBytes int64  `mapstructure:"-"`
	Debug          bool   `mapstructure:"-"`
	Source         string `mapstructure:"-"`
}

// ExcludePatterns splits Exclude on commas, dropping blanks.
func (c Config) ExcludePatterns() []string { return splitCSV(c.Exclude) }

// CommandArgs splits CLICommand on whitespace.
func (c Config) CommandArgs() []string { return strings.Fields(c.CLICommand) }

// File is the optional YAML file layered under step inputs.
type File struct {
	Inputs map[string]any `yaml:"inputs"`
}

func Load(path string) (File, error) {
	var f File
	if strings.TrimSpace(path) == "" {
		return f, fmt.Errorf("config file path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config file: %w", err)
	}
	expanded, err := expandEnv(string(b))
	if err != nil {
		return f, err
	}
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return f, fmt.Errorf("parse config file: %w", err)
	}
	return f, nil
}

var envExpr = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

func expandEnv(src string) (string, error) {
	var out strings.Builder
	last := 0
	for _, idx := range envExpr.FindAllStringSubmatchIndex(src, -1) {
		out.WriteString(src[last:idx[0]])
		name := src[idx[2]:idx[3]]
		hasDefault := idx[4] >= 0 && idx[5] >= 0
		defVal := ""
		if hasDefault && idx[6] >= 0 && idx[7] >= 0 {
			defVal = src[idx[6]:idx[7]]
		}
		if v, ok := os.LookupEnv(name); ok {
			out.WriteString(v)
		} else if hasDefault {
			out.WriteString(defVal)
		} else {
			return "", fmt.Errorf("config references unset environment variable: %s", name)
		}
		last = idx[1]
	}
	out.WriteString(src[last:])
	return out.String(), nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
