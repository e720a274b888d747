// Package proto holds the wire messages and service bindings of the
// CryptoPass document store. Messages are plain structs whose `pb` tags give
// the protobuf field numbers of cryptopass.proto; they travel in the protobuf
// binary encoding through a gRPC codec registered under CodecName.
package proto

import (
	"fmt"
	"reflect"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype clients must request.
const CodecName = "cpproto"

type wireCodec struct{}

func (wireCodec) Marshal(v any) ([]byte, error) {
	rv, err := messageValue(v)
	if err != nil {
		return nil, err
	}
	return marshalMessage(nil, rv)
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	rv, err := messageValue(v)
	if err != nil {
		return err
	}
	rv.Set(reflect.Zero(rv.Type()))
	return unmarshalMessage(data, rv)
}

func (wireCodec) Name() string {
	return CodecName
}

func messageValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("proto: %T is not a message pointer", v)
	}
	return rv.Elem(), nil
}

func init() {
	encoding.RegisterCodec(wireCodec{})
}
