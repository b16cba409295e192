// Package cypher turns form input into parameterized Cypher statements.
package cypher

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"neo4j-explorer-backend/pkg/utils"
)

// LabelsQuery lists every node label in the database.
const LabelsQuery = "CALL db.labels() YIELD label RETURN label"

var (
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrStrayBrace         = errors.New("braces are only allowed around the whole property map")
)

// ParseProperties reads a property-map fragment such as
// `name: 'Ann', age: 42` (surrounding braces optional) into values that
// can be bound as query parameters. Keys must be plain identifiers and
// values scalars or lists of scalars.
func ParseProperties(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if text == "" {
		return map[string]any{}, nil
	}

	normalized, err := normalize(text)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("{"+normalized+"}"), &doc); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	if len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse properties: not a property map")
	}
	if err := checkLiterals(doc.Content[0]); err != nil {
		return nil, err
	}

	var props map[string]any
	if err := doc.Decode(&props); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}

	for key, value := range props {
		if err := utils.ValidateIdentifier("property key", key); err != nil {
			return nil, err
		}
		if err := checkValue(key, value, true); err != nil {
			return nil, err
		}
	}
	return props, nil
}

// normalize rewrites quoted strings as YAML double-quoted scalars and puts
// a space after every separator colon, which YAML flow mappings need.
// Braces outside a string are rejected; the decoder would otherwise stop
// at the first closing brace and drop the rest of the input.
func normalize(text string) (string, error) {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\'', '"':
			value, next, err := readString(runes, i)
			if err != nil {
				return "", err
			}
			b.WriteString(strconv.Quote(value))
			i = next
		case ':':
			b.WriteString(": ")
		case '{', '}':
			return "", ErrStrayBrace
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// readString reads the literal opening at runes[start] and returns its
// unescaped content and the index of the closing quote.
func readString(runes []rune, start int) (string, int, error) {
	quote := runes[start]
	var b strings.Builder
	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			switch esc := runes[i]; esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(esc)
			}
		case r == quote:
			return b.String(), i, nil
		default:
			b.WriteRune(r)
		}
	}
	return "", 0, ErrUnterminatedString
}

// checkLiterals requires every unquoted scalar to resolve to a number or a
// boolean. Bare words would be variables in Cypher.
func checkLiterals(mapping *yaml.Node) error {
	for i := 1; i < len(mapping.Content); i += 2 {
		if err := checkLiteral(mapping.Content[i-1].Value, mapping.Content[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkLiteral(key string, node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if err := checkLiteral(key, item); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if node.Style&yaml.DoubleQuotedStyle != 0 {
			return nil
		}
		switch node.Tag {
		case "!!int", "!!float", "!!bool":
			return nil
		case "!!null":
			return fmt.Errorf("property %s has no value", key)
		}
		return fmt.Errorf("property %s: %q is not a literal, quote strings", key, node.Value)
	}
	return nil
}

func checkValue(key string, value any, allowList bool) error {
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("property %s has no value", key)
	case map[string]any, map[any]any:
		return fmt.Errorf("property %s: nested maps are not valid property values", key)
	case []any:
		if !allowList {
			return fmt.Errorf("property %s: nested lists are not valid property values", key)
		}
		for _, item := range v {
			if err := checkValue(key, item, false); err != nil {
				return err
			}
		}
	}
	return nil
}
