package cadence

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v4"
	"go.uber.org/cadence/encoded"
)

var _ encoded.DataConverter = (*MsgPackDataConverter)(nil)

// MsgPackDataConverter carries workflow and activity arguments, such as alert
// ids and alerts, as consecutive msgpack values
type MsgPackDataConverter struct{}

func NewMsgPackDataConverter() *MsgPackDataConverter {
	return &MsgPackDataConverter{}
}

func (c *MsgPackDataConverter) ToData(values ...interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for i, v := range values {
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode argument %d (%v): %w", i, reflect.TypeOf(v), err)
		}
	}
	return buf.Bytes(), nil
}

// FromData decodes input into valuePtrs in order. Extra trailing data is ignored.
func (c *MsgPackDataConverter) FromData(input []byte, valuePtrs ...interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(input))
	for i, ptr := range valuePtrs {
		if err := dec.Decode(ptr); err != nil {
			return fmt.Errorf("decode argument %d (%v): %w", i, reflect.TypeOf(ptr), err)
		}
	}
	return nil
}
