// Package config loads and validates the program document: the declaration
// of processes, their statements, and daemon-wide settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/decld/internal/value"
)

// Document is the parsed program document.
type Document struct {
	Daemon    Daemon    `toml:"daemon"`
	Processes []Process `toml:"process"`
}

// Daemon holds daemon-wide settings.
type Daemon struct {
	RetryInterval string   `toml:"retry_interval"`
	RetryJitter   bool     `toml:"retry_jitter"`
	AdminAddr     string   `toml:"admin_addr"`
	CorsOrigins   []string `toml:"cors_origins"`
}

// Process declares one independent process: a name and an ordered list of
// statements.
type Process struct {
	Name       string      `toml:"name"`
	Statements []Statement `toml:"statement"`
}

// Statement declares one module invocation.
type Statement struct {
	Name   string `toml:"name"`
	Module string `toml:"module"`
	Args   []any  `toml:"args"`
}

// Argument is one decoded statement argument: a literal value or a variable
// reference ("target" or "target.path").
type Argument struct {
	IsVar   bool
	Ref     string
	Literal value.Value
}

// LoadDocument reads, parses, and validates a program document.
func LoadDocument(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := ValidateDocument(doc); err != nil {
		return Document{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return doc, nil
}

// ValidateDocument checks daemon settings and every process declaration.
func ValidateDocument(doc Document) error {
	if err := ValidateDaemon(doc.Daemon); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(doc.Processes))
	for i, pc := range doc.Processes {
		if err := ValidateProcess(pc); err != nil {
			return fmt.Errorf("process[%d] invalid: %w", i, err)
		}
		if _, ok := seen[pc.Name]; ok {
			return fmt.Errorf("process[%d] invalid: duplicate name %q", i, pc.Name)
		}
		seen[pc.Name] = struct{}{}
	}
	return nil
}

// ValidateDaemon checks daemon-wide settings.
func ValidateDaemon(d Daemon) error {
	if strings.TrimSpace(d.RetryInterval) != "" {
		if _, err := time.ParseDuration(d.RetryInterval); err != nil {
			return fmt.Errorf("parse retry_interval: %w", err)
		}
	}
	return nil
}

// RetryIntervalDuration returns the parsed retry interval, or zero when
// unset (the engine applies its default).
func (d Daemon) RetryIntervalDuration() time.Duration {
	raw := strings.TrimSpace(d.RetryInterval)
	if raw == "" {
		return 0
	}
	out, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return out
}

// ValidateProcess checks one process declaration.
func ValidateProcess(pc Process) error {
	if strings.TrimSpace(pc.Name) == "" {
		return fmt.Errorf("name is required")
	}
	names := make(map[string]struct{}, len(pc.Statements))
	for i, st := range pc.Statements {
		if strings.TrimSpace(st.Module) == "" {
			return fmt.Errorf("statement[%d]: module is required", i)
		}
		if st.Name != "" {
			if _, ok := names[st.Name]; ok {
				return fmt.Errorf("statement[%d]: duplicate statement name %q", i, st.Name)
			}
			names[st.Name] = struct{}{}
		}
		if _, err := st.BuildArgs(); err != nil {
			return fmt.Errorf("statement[%d]: %w", i, err)
		}
	}
	return nil
}

// BuildArgs decodes the raw TOML argument nodes: a string is a literal
// string, an array is a literal list (recursively), and an inline table
// { var = "target.path" } is a variable reference.
func (s Statement) BuildArgs() ([]Argument, error) {
	out := make([]Argument, 0, len(s.Args))
	for i, raw := range s.Args {
		arg, err := buildArg(raw)
		if err != nil {
			return nil, fmt.Errorf("arg[%d]: %w", i, err)
		}
		out = append(out, arg)
	}
	return out, nil
}

func buildArg(raw any) (Argument, error) {
	switch node := raw.(type) {
	case string:
		return Argument{Literal: value.NewString(node)}, nil
	case []any:
		v, err := buildLiteral(node)
		if err != nil {
			return Argument{}, err
		}
		return Argument{Literal: v}, nil
	case map[string]any:
		ref, ok := node["var"]
		if !ok || len(node) != 1 {
			return Argument{}, fmt.Errorf("argument table must have exactly one key %q", "var")
		}
		name, ok := ref.(string)
		if !ok {
			return Argument{}, fmt.Errorf("var reference must be a string")
		}
		if err := validateRef(name); err != nil {
			return Argument{}, err
		}
		return Argument{IsVar: true, Ref: name}, nil
	default:
		return Argument{}, fmt.Errorf("unsupported argument type %T", raw)
	}
}

func buildLiteral(nodes []any) (value.Value, error) {
	out := value.NewList()
	for i, raw := range nodes {
		switch node := raw.(type) {
		case string:
			out.Append(value.NewString(node))
		case []any:
			v, err := buildLiteral(node)
			if err != nil {
				return value.Value{}, fmt.Errorf("elem[%d]: %w", i, err)
			}
			out.Append(v)
		default:
			return value.Value{}, fmt.Errorf("elem[%d]: unsupported element type %T", i, raw)
		}
	}
	return out, nil
}

func validateRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("var reference is empty")
	}
	for _, tok := range strings.Split(ref, ".") {
		if tok == "" {
			return fmt.Errorf("var reference %q has an empty token", ref)
		}
	}
	return nil
}
