// Package json wraps sonic for response serialization. Platforms sonic does
// not support fall back to encoding/json.
package json

import (
	stdjson "encoding/json"
	"io"
	"net/http"
	"runtime"

	"github.com/bytedance/sonic"
)

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// NewDecoder creates a new JSON decoder for the reader.
	NewDecoder func(r io.Reader) Decoder
)

// Decoder is a JSON decoder interface.
type Decoder interface {
	Decode(v interface{}) error
}

func init() {
	// sonic only supports amd64 and arm64
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		Marshal = sonic.ConfigStd.Marshal
		Unmarshal = sonic.ConfigStd.Unmarshal
		NewDecoder = func(r io.Reader) Decoder {
			return sonic.ConfigStd.NewDecoder(r)
		}
		return
	}
	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	NewDecoder = func(r io.Reader) Decoder {
		return stdjson.NewDecoder(r)
	}
}

var jsonContentType = []string{"application/json; charset=utf-8"}

// Render is a gin render.Render that serializes Data with Marshal.
type Render struct {
	Data interface{}
}

// Render writes the encoded payload.
func (r Render) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	b, err := Marshal(r.Data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteContentType sets the JSON content type if none is set.
func (r Render) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = jsonContentType
	}
}
