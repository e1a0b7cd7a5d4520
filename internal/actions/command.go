// Package actions talks to the CI host: it reads step inputs from the
// environment and writes workflow commands, outputs and masks back.
package actions

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Command is a single workflow command such as ::warning file=a.go::msg.
type Command struct {
	Name       string
	Properties map[string]string
	Message    string
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(c.Name)
	if len(c.Properties) > 0 {
		keys := make([]string, 0, len(c.Properties))
		for k := range c.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(escapeProperty(c.Properties[k]))
		}
	}
	b.WriteString("::")
	b.WriteString(escapeData(c.Message))
	return b.String()
}

// Issue writes cmd as one line to w.
func Issue(w io.Writer, cmd Command) error {
	_, err := fmt.Fprintln(w, cmd.String())
	return err
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
