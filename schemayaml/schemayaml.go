// Package schemayaml loads a schema.StructNode from a YAML document,
// letting schemas live as data files instead of Go source.
package schemayaml

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/benjamin-larsen/thriftcompact/schema"
)

// node is the YAML shape of a single type descriptor. Not every field
// applies to every Type: Item is used by list/set, Key/Value by map,
// Fields by struct, Kind by binary.
type node struct {
	Type   string  `yaml:"type"`
	Item   *node   `yaml:"item,omitempty"`
	Key    *node   `yaml:"key,omitempty"`
	Value  *node   `yaml:"value,omitempty"`
	Kind   string  `yaml:"kind,omitempty"`
	Fields []field `yaml:"fields,omitempty"`
}

type field struct {
	Number   uint16 `yaml:"number"`
	Name     string `yaml:"name"`
	Optional bool   `yaml:"optional"`
	node     `yaml:",inline"`
}

type document struct {
	Fields []field `yaml:"fields"`
}

// LoadFile reads and parses the schema at path.
func LoadFile(path string) (s *schema.StructNode, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemayaml: read %s: %w", path, err)
	}

	return Load(data)
}

// Load parses a YAML document into a root struct schema. Schema
// construction errors raised as panics by the schema package (an invalid
// map key type, a duplicate field name) are converted to plain errors,
// since a malformed schema file is an ordinary input error here, not a
// programmer mistake.
func Load(data []byte) (s *schema.StructNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("schemayaml: %v", r)
		}
	}()

	var doc document

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemayaml: parse: %w", err)
	}

	return buildStruct(doc.Fields)
}

func buildStruct(fields []field) (*schema.StructNode, error) {
	built := make([]schema.Field, 0, len(fields))

	for _, f := range fields {
		n, err := buildNode(f.node)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}

		sf := schema.NewField(f.Number, f.Name, n)
		if f.Optional {
			sf = sf.AsOptional()
		}

		built = append(built, sf)
	}

	return schema.Struct(built...), nil
}

func buildNode(n node) (schema.Node, error) {
	switch strings.ToLower(n.Type) {
	case "bool", "boolean":
		return schema.Bool(), nil

	case "byte", "i8":
		return schema.ByteType(), nil

	case "i16":
		return schema.I16Type(), nil

	case "i32":
		return schema.I32Type(), nil

	case "i64":
		return schema.I64Type(), nil

	case "double":
		return schema.DoubleType(), nil

	case "float":
		return schema.FloatType(), nil

	case "string":
		return schema.StringType(), nil

	case "bytes", "binary":
		if strings.EqualFold(n.Kind, "string") {
			return schema.StringType(), nil
		}

		return schema.BytesType(), nil

	case "list":
		if n.Item == nil {
			return nil, fmt.Errorf("list requires an item type")
		}

		item, err := buildNode(*n.Item)
		if err != nil {
			return nil, err
		}

		return schema.ListOf(item), nil

	case "set":
		if n.Item == nil {
			return nil, fmt.Errorf("set requires an item type")
		}

		item, err := buildNode(*n.Item)
		if err != nil {
			return nil, err
		}

		return schema.SetOf(item), nil

	case "map":
		if n.Key == nil || n.Value == nil {
			return nil, fmt.Errorf("map requires a key type and a value type")
		}

		key, err := buildNode(*n.Key)
		if err != nil {
			return nil, err
		}

		val, err := buildNode(*n.Value)
		if err != nil {
			return nil, err
		}

		return schema.MapOf(key, val), nil

	case "struct":
		return buildStruct(n.Fields)

	default:
		return nil, fmt.Errorf("unrecognized type %q", n.Type)
	}
}
