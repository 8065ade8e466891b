package serialize

import (
	"bytes"
	"encoding/gob"
	"encoding/json"

	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"gopkg.in/yaml.v3"
)

// Format tags a rate dump encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatBinary Format = "binary"
)

// Codec encodes and decodes a flat rate mapping. Each implementation is
// stateless and safe for concurrent use.
type Codec interface {
	Encode(rates map[string]string) ([]byte, error)
	Decode(data []byte) (map[string]string, error)
}

// codecFor rejects unknown formats before any I/O or store mutation is
// attempted.
func codecFor(format Format) (Codec, error) {
	switch format {
	case FormatJSON:
		return jsonCodec{}, nil
	case FormatYAML:
		return yamlCodec{}, nil
	case FormatBinary:
		return gobCodec{}, nil
	default:
		return nil, &entity.UnknownFormatError{Format: string(format)}
	}
}

type jsonCodec struct{}

func (jsonCodec) Encode(rates map[string]string) ([]byte, error) {
	return json.Marshal(rates)
}

func (jsonCodec) Decode(data []byte) (map[string]string, error) {
	var rates map[string]string
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

type yamlCodec struct{}

func (yamlCodec) Encode(rates map[string]string) ([]byte, error) {
	return yaml.Marshal(rates)
}

func (yamlCodec) Decode(data []byte) (map[string]string, error) {
	var rates map[string]string
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

type gobCodec struct{}

func (gobCodec) Encode(rates map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rates); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Decode(data []byte) (map[string]string, error) {
	var rates map[string]string
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rates); err != nil {
		return nil, err
	}
	return rates, nil
}
