package network

import "encoding/json"

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Encoder turns a value into a request body.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder turns a response body into a value.
type Decoder interface {
	Decode(data []byte, v any) error
}

// JSONCodec is the default Encoder and Decoder.
type JSONCodec struct{}

// Encode marshals v as JSON.
func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals JSON data into v.
func (JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(v any) ([]byte, error)

// Encode calls f(v).
func (f EncoderFunc) Encode(v any) ([]byte, error) {
	return f(v)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte, v any) error

// Decode calls f(data, v).
func (f DecoderFunc) Decode(data []byte, v any) error {
	return f(data, v)
}
