// Package codec converts policy documents between their JSON wire form and
// the typed model.
//
// Fields named timestamp or expires are normalized to time.Time wherever they
// appear, whether given as epoch seconds or as date text, and are written
// back in a fixed offset layout.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
	"starttls-hq/everywhere/pkg/policy/instant"
	"starttls-hq/everywhere/pkg/policy/model"
	"starttls-hq/everywhere/pkg/policy/schema"
)

const malformed = "not a well-formed configuration"

// instantFields are normalized at any depth of the document.
var instantFields = map[string]bool{
	model.FieldTimestamp: true,
	model.FieldExpires:   true,
}

// Deserialize parses a JSON policy document into a validated config.
func Deserialize(data []byte) (*model.Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, policyErrors.Annotate(err, malformed)
	}
	return build(raw)
}

// DeserializeYAML parses a YAML policy document into a validated config.
func DeserializeYAML(data []byte) (*model.Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, policyErrors.Annotate(err, malformed)
	}
	return build(raw)
}

func build(raw any) (*model.Config, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, &policyErrors.Error{
			Type:    policyErrors.ErrorTypeMalformedDocument,
			Message: malformed,
			Err:     fmt.Errorf("document is a %T, not an object", raw),
		}
	}

	normalized, err := normalize(doc)
	if err != nil {
		return nil, policyErrors.Annotate(err, malformed)
	}
	doc = normalized.(map[string]any)

	if _, err := schema.Check(doc, model.ConfigSchema(), nil, true); err != nil {
		return nil, policyErrors.Annotate(err, malformed)
	}

	cfg, err := model.NewConfig(doc)
	if err != nil {
		return nil, policyErrors.Annotate(err, malformed)
	}
	return cfg, nil
}

// normalize converts instant fields and YAML's map[any]any mappings.
func normalize(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			if instantFields[k] {
				t, err := instant.Parse(item)
				if err != nil {
					return nil, err
				}
				out[k] = t
				continue
			}
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, item := range v {
			m[fmt.Sprint(k)] = item
		}
		return normalize(m)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return value, nil
}

// Serialize encodes cfg as a JSON document.
func Serialize(cfg *model.Config) ([]byte, error) {
	return json.Marshal(encode(cfg.Wire()))
}

// SerializeIndent is like Serialize but indents the output.
func SerializeIndent(cfg *model.Config, indent string) ([]byte, error) {
	return json.MarshalIndent(encode(cfg.Wire()), "", indent)
}

func encode(value any) any {
	switch v := value.(type) {
	case time.Time:
		return instant.Format(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = encode(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = encode(item)
		}
		return out
	}
	return value
}

// ReadFile reads and deserializes the document at path. Files ending in
// .yaml or .yml are parsed as YAML.
func ReadFile(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return DeserializeYAML(data)
	}
	return Deserialize(data)
}

// WriteFile serializes cfg to path.
func WriteFile(path string, cfg *model.Config) error {
	data, err := Serialize(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize policy: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}
	return nil
}
