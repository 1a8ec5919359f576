// Package encoding provides the encoders of the command line tool.
// JSON input is decoded leniently with ljson.
package encoding

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/utils"
	"gopkg.in/yaml.v3"
)

// Encoder marshals values in one format
type Encoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type Format = string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatText Format = "text"
)

// Formats lists the supported formats
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatText}

var (
	_ Encoder = jsonEncoder{}
	_ Encoder = yamlEncoder{}
	_ Encoder = tomlEncoder{}
	_ Encoder = textEncoder{}
)

// New returns the encoder for the format
func New(format Format) (Encoder, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return jsonEncoder{}, nil
	case FormatYAML, "yml":
		return yamlEncoder{}, nil
	case FormatTOML:
		return tomlEncoder{}, nil
	case FormatText, "txt":
		return textEncoder{}, nil
	default:
		return nil, errors.Newf("unsupported format: %q, use one of: %s", format, strings.Join(Formats, ", "))
	}
}

// Generic converts v to maps, slices and scalars following its json tags,
// so formats without json tag support render the same field names.
func Generic(v any) (any, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal value")
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var res any
	if err = dec.Decode(&res); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal value")
	}
	return numbers(res), nil
}

// numbers replaces json.Number with int64 or float64
func numbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, val := range t {
			t[k] = numbers(val)
		}
	case []any:
		for i, val := range t {
			t[i] = numbers(val)
		}
	}
	return v
}

type jsonEncoder struct{}

func (jsonEncoder) Marshal(v any) ([]byte, error) {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode JSON")
	}
	return append(js, '\n'), nil
}

func (jsonEncoder) Unmarshal(data []byte, v any) error {
	return errors.Wrap(ljson.Unmarshal(utils.CleanJSON(data), v), "failed to decode JSON")
}

type yamlEncoder struct{}

func (yamlEncoder) Marshal(v any) ([]byte, error) {
	g, err := Generic(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err = enc.Encode(g); err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML")
	}
	if err = enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode YAML")
	}
	return buf.Bytes(), nil
}

func (yamlEncoder) Unmarshal(data []byte, v any) error {
	return errors.Wrap(yaml.Unmarshal(utils.BytesTrimBackticks(data), v), "failed to decode YAML")
}

type tomlEncoder struct{}

// Marshal encodes v as a TOML document,
// values that are not tables are placed under the "result" key.
func (tomlEncoder) Marshal(v any) ([]byte, error) {
	g, err := Generic(v)
	if err != nil {
		return nil, err
	}
	if _, ok := g.(map[string]any); !ok {
		g = map[string]any{"result": g}
	}
	js, err := toml.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode TOML")
	}
	return js, nil
}

func (tomlEncoder) Unmarshal(data []byte, v any) error {
	return errors.Wrap(toml.Unmarshal(data, v), "failed to decode TOML")
}

type textEncoder struct{}

func (textEncoder) Marshal(v any) ([]byte, error) {
	s := utils.Stringify(v)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return []byte(s), nil
}

func (textEncoder) Unmarshal(data []byte, v any) error {
	s, ok := v.(*string)
	if !ok {
		return errors.Newf("text can only be decoded to *string, got %T", v)
	}
	*s = strings.TrimSpace(string(data))
	return nil
}
