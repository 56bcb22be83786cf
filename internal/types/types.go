package types

import (
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string         `json:"rule"`
	Category   string         `json:"category"`
	Filename   string         `json:"filename"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Note       string         `json:"note,omitempty"`
	Start      token.Position `json:"start"`
	End        token.Position `json:"end"`
	Severity   Severity       `json:"severity"`
	Confidence float64        `json:"confidence"`
	// Fix is the machine-applicable edit, if the rule provides one.
	Fix *TextEdit `json:"fix,omitempty"`
}

// TextEdit replaces the source between Start and End (exclusive) with NewText.
type TextEdit struct {
	Start   token.Position `json:"start"`
	End     token.Position `json:"end"`
	NewText string         `json:"newText"`
}

// Severity is the reporting level of a rule.
type Severity int

const (
	SeverityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	default:
		return "UNSET"
	}
}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return SeverityError, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "INFO":
		return SeverityInfo, nil
	case "OFF":
		return SeverityOff, nil
	case "", "UNSET":
		return SeverityUnset, nil
	}
	return SeverityUnset, fmt.Errorf("invalid severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// UnmarshalYAML lets configuration files spell severities as plain strings.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}

// ConfigRule is the per-rule section of the configuration file.
type ConfigRule struct {
	Severity Severity       `yaml:"severity"`
	Data     map[string]any `yaml:"data"`
}
