package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Format names of the built-in parsers.
const (
	FormatSemicolon = "semicolon"
	FormatComma     = "comma"
)

// ErrUnknownFormat is returned by Lookup when no parser handles a format.
var ErrUnknownFormat = errors.New("unknown import format")

// Parser turns an import file into candidate records. Format is the name
// the parser is selected by in checkbook.yaml (import.format).
type Parser interface {
	Parse(r io.Reader) ([]Record, error)
	Format() string
}

// Registry maps format names, compared without regard to case, to parsers.
type Registry struct {
	byFormat map[string]Parser
}

// NewRegistry builds a registry from parsers. Two parsers claiming the same
// format name is an error.
func NewRegistry(parsers ...Parser) (*Registry, error) {
	r := &Registry{byFormat: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		name := strings.ToLower(p.Format())
		if _, taken := r.byFormat[name]; taken {
			return nil, fmt.Errorf("format %q registered twice", name)
		}
		r.byFormat[name] = p
	}
	return r, nil
}

// BuiltinRegistry holds the semicolon parser used by default and the comma
// variant.
func BuiltinRegistry() *Registry {
	r, _ := NewRegistry(
		NewDelimitedParser(FormatSemicolon, ';'),
		NewDelimitedParser(FormatComma, ','),
	)
	return r
}

// Lookup returns the parser for format. The error lists the known formats.
func (r *Registry) Lookup(format string) (Parser, error) {
	if p, ok := r.byFormat[strings.ToLower(strings.TrimSpace(format))]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
}

// Formats returns the registered format names in sorted order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.byFormat))
	for name := range r.byFormat {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
