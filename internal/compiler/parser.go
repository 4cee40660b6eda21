// Package compiler turns raw asset documents into immutable loot nodes.
package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DecodeError locates a failure inside one document.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func errAt(path string, format string, args ...any) error {
	return &DecodeError{Path: path, Err: fmt.Errorf(format, args...)}
}

// Parser decodes asset documents. It is safe for concurrent use.
type Parser struct {
	schemas map[domain.Kind]*jsonschema.Schema
}

// NewParser creates a parser with the built-in envelope schemas.
func NewParser() (*Parser, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &Parser{schemas: schemas}, nil
}

// MustNewParser is NewParser for package initialization and tests.
func MustNewParser() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse decodes a JSON or YAML document of the given kind.
func (p *Parser) Parse(kind domain.Kind, name string, data []byte) (loot.Asset, error) {
	doc, err := p.document(kind, data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case domain.KindPredicate:
		return decodePredicate(doc)
	case domain.KindItemModifier:
		return decodeModifier(doc)
	case domain.KindLootTable:
		return decodeTable(name, doc)
	default:
		return nil, fmt.Errorf("%w: asset kind %q", domain.ErrUnknownType, kind)
	}
}

// ParseTable decodes a loot table document.
func (p *Parser) ParseTable(name string, data []byte) (*loot.Table, error) {
	a, err := p.Parse(domain.KindLootTable, name, data)
	if err != nil {
		return nil, err
	}
	return a.(*loot.Table), nil
}

// ParseCondition decodes a predicate document.
func (p *Parser) ParseCondition(data []byte) (loot.Condition, error) {
	a, err := p.Parse(domain.KindPredicate, "", data)
	if err != nil {
		return nil, err
	}
	return a.(loot.Condition), nil
}

// ParseTransform decodes an item modifier document.
func (p *Parser) ParseTransform(data []byte) (loot.Transform, error) {
	a, err := p.Parse(domain.KindItemModifier, "", data)
	if err != nil {
		return nil, err
	}
	return a.(loot.Transform), nil
}

// document reads data as YAML (a superset of JSON), normalizes it to the
// generic JSON form and checks it against the kind's envelope schema.
func (p *Parser) document(kind domain.Kind, data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	doc, err := normalize(raw)
	if err != nil {
		return nil, err
	}
	if s, ok := p.schemas[kind]; ok {
		if err := s.Validate(doc); err != nil {
			return nil, schemaError(err)
		}
	}
	return doc, nil
}

// normalize round-trips v through encoding/json so maps have string keys and
// numbers are json.Number, the form the schema validator and decoders expect.
func normalize(v any) (any, error) {
	b, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	return out, nil
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringKeys(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = stringKeys(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = stringKeys(e)
		}
		return t
	default:
		return v
	}
}
