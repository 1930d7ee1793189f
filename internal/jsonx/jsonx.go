// Package jsonx wraps json-iterator's standard-library-compatible config.
// It is the JSON surface used by internal/apperr for problem reporting
// and by cmd/ledgerctl for human-facing output; the core codec package
// never uses it, since ledger hashes depend on the deterministic binary
// codec, not JSON.
package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes v as JSON using the compatible jsoniter config.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return api.NewDecoder(r)
}

// NewEncoder returns a streaming encoder writing to w.
func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return api.NewEncoder(w)
}
