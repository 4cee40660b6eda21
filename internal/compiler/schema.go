package compiler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// compileSchemas loads the envelope schema of every asset kind.
func compileSchemas() (map[domain.Kind]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	out := make(map[domain.Kind]*jsonschema.Schema, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		file := "schemas/" + string(kind) + ".schema.json"
		raw, err := schemaFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", file, err)
		}
		url := "trove://" + file
		if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", file, err)
		}
		s, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", file, err)
		}
		out[kind] = s
	}
	return out, nil
}

// schemaError flattens a validation failure to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &DecodeError{Path: pointerPath(ve.InstanceLocation), Err: errors.New(ve.Message)}
}

// pointerPath turns "/pools/0/entries" into "pools[0].entries".
func pointerPath(ptr string) string {
	var b bytes.Buffer
	seg := []byte{}
	flush := func() {
		if len(seg) == 0 {
			return
		}
		if isIndex(seg) {
			b.WriteByte('[')
			b.Write(seg)
			b.WriteByte(']')
		} else {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.Write(seg)
		}
		seg = seg[:0]
	}
	for i := 0; i < len(ptr); i++ {
		if ptr[i] == '/' {
			flush()
			continue
		}
		seg = append(seg, ptr[i])
	}
	flush()
	return b.String()
}

func isIndex(seg []byte) bool {
	for _, c := range seg {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(seg) > 0
}
