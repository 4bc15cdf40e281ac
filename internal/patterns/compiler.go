// Package patterns implements a small grok-style pattern compiler and
// a set of coordinate-conversion helpers, used by internal/ingest/ogn
// to turn a raw APRS-IS beacon line into named fields.
// This file contains the pattern compiler itself.
package patterns

import (
	"regexp"
	"strings"
)

// Format describes one line grammar: a regex pattern with named
// capture groups, written with {PLACEHOLDER} references into
// BasePatterns (and whatever local patterns the caller overlays on
// top of them).
type Format struct {
	Name     string         // Format name for identification
	Pattern  string         // Pattern with {PLACEHOLDER} syntax
	Compiled *regexp.Regexp // Compiled regex (populated by Compile)
	Fields   []string       // Field names in capture order (for documentation)
}

// Compiler matches a line of text against a set of Formats.
type Compiler struct {
	basePatterns map[string]string
	formats      []Format
}

// NewCompiler creates a Compiler for the given formats, with
// localPatterns overlaid on top of the package-level BasePatterns so a
// caller's {PLACEHOLDER} can override a global one of the same name.
func NewCompiler(formats []Format, localPatterns map[string]string) *Compiler {
	c := &Compiler{
		basePatterns: make(map[string]string),
		formats:      make([]Format, len(formats)),
	}

	for k, v := range BasePatterns {
		c.basePatterns[k] = v
	}
	for k, v := range localPatterns {
		c.basePatterns[k] = v
	}

	copy(c.formats, formats)

	return c
}

// Compile expands every format's {PLACEHOLDER} references and compiles
// the resulting regex. Call once, before the first Parse.
func (c *Compiler) Compile() error {
	for i := range c.formats {
		expanded := c.expand(c.formats[i].Pattern)
		re, err := regexp.Compile(expanded)
		if err != nil {
			return err
		}
		c.formats[i].Compiled = re
	}
	return nil
}

// expand replaces {PLACEHOLDER} with the matching base/local pattern.
func (c *Compiler) expand(pattern string) string {
	result := pattern
	for name, regex := range c.basePatterns {
		placeholder := "{" + name + "}"
		result = strings.ReplaceAll(result, placeholder, regex)
	}
	return result
}

// Match is a line that matched one of the Compiler's formats, with its
// named capture groups extracted.
type Match struct {
	FormatName string            // Name of the matched format
	Captures   map[string]string // Named capture group values
}

// Parse tries each compiled format against text in order and returns
// the first match, or nil if none apply.
func (c *Compiler) Parse(text string) *Match {
	upperText := strings.ToUpper(text)

	for _, format := range c.formats {
		if format.Compiled == nil {
			continue
		}

		match := format.Compiled.FindStringSubmatch(upperText)
		if match == nil {
			continue
		}

		result := &Match{
			FormatName: format.Name,
			Captures:   make(map[string]string),
		}

		for i, name := range format.Compiled.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			result.Captures[name] = match[i]
		}

		return result
	}

	return nil
}
