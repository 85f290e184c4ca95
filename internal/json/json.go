// Package json wraps goccy/go-json for the JSON-lines row formats used by
// the command line tools.
package json

import (
	"errors"
	"io"

	"github.com/goccy/go-json"
)

type Decoder = json.Decoder
type Encoder = json.Encoder
type Number = json.Number
type RawMessage = json.RawMessage

func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func NewEncoder(w io.Writer) *Encoder {
	return json.NewEncoder(w)
}

// RowDecoder reads a stream of JSON objects, one row per object. Numbers are
// kept as Number so integer columns do not lose precision through float64.
type RowDecoder struct {
	dec *json.Decoder
}

func NewRowDecoder(r io.Reader) *RowDecoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &RowDecoder{dec: dec}
}

// Next returns the next row, or io.EOF once the stream is drained.
func (d *RowDecoder) Next() (map[string]any, error) {
	var row map[string]any
	if err := d.dec.Decode(&row); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return row, nil
}
