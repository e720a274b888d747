package proto

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"google.golang.org/protobuf/encoding/protowire"
)

type wireField struct {
	num   protowire.Number
	index int
}

var layouts sync.Map // reflect.Type -> []wireField

func layoutOf(t reflect.Type) ([]wireField, error) {
	if l, ok := layouts.Load(t); ok {
		return l.([]wireField), nil
	}

	var fields []wireField
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("pb")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(tag)
		if err != nil || !protowire.Number(n).IsValid() {
			return nil, fmt.Errorf("proto: %s.%s: bad field number %q", t.Name(), t.Field(i).Name, tag)
		}
		fields = append(fields, wireField{num: protowire.Number(n), index: i})
	}

	layouts.Store(t, fields)
	return fields, nil
}

// marshalMessage appends the encoding of struct v to b. Zero scalars are
// omitted, as proto3 does for implicit presence.
func marshalMessage(b []byte, v reflect.Value) ([]byte, error) {
	fields, err := layoutOf(v.Type())
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		fv := v.Field(f.index)
		switch {
		case fv.Kind() == reflect.String:
			if fv.Len() > 0 {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendString(b, fv.String())
			}
		case fv.Kind() == reflect.Int64:
			if fv.Int() != 0 {
				b = protowire.AppendTag(b, f.num, protowire.VarintType)
				b = protowire.AppendVarint(b, uint64(fv.Int()))
			}
		case fv.Kind() == reflect.Bool:
			if fv.Bool() {
				b = protowire.AppendTag(b, f.num, protowire.VarintType)
				b = protowire.AppendVarint(b, protowire.EncodeBool(true))
			}
		case isBytes(fv.Type()):
			if fv.Len() > 0 {
				b = protowire.AppendTag(b, f.num, protowire.BytesType)
				b = protowire.AppendBytes(b, fv.Bytes())
			}
		case isMessagePtr(fv.Type()):
			if !fv.IsNil() {
				if b, err = appendEmbedded(b, f.num, fv.Elem()); err != nil {
					return nil, err
				}
			}
		case fv.Kind() == reflect.Slice && isMessagePtr(fv.Type().Elem()):
			for j := 0; j < fv.Len(); j++ {
				elem := fv.Index(j)
				if elem.IsNil() {
					elem = reflect.New(elem.Type().Elem())
				}
				if b, err = appendEmbedded(b, f.num, elem.Elem()); err != nil {
					return nil, err
				}
			}
		default:
			return nil, fmt.Errorf("proto: %s field %d: unsupported type %s", v.Type().Name(), f.num, fv.Type())
		}
	}
	return b, nil
}

func appendEmbedded(b []byte, num protowire.Number, v reflect.Value) ([]byte, error) {
	sub, err := marshalMessage(nil, v)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub), nil
}

// unmarshalMessage decodes b into struct v. Unknown fields are skipped.
func unmarshalMessage(b []byte, v reflect.Value) error {
	fields, err := layoutOf(v.Type())
	if err != nil {
		return err
	}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		fv, ok := fieldByNumber(v, fields, num)
		if !ok {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		want := protowire.BytesType
		if k := fv.Kind(); k == reflect.Int64 || k == reflect.Bool {
			want = protowire.VarintType
		}
		if typ != want {
			return fmt.Errorf("proto: %s field %d: wire type %d, want %d", v.Type().Name(), num, typ, want)
		}

		if want == protowire.VarintType {
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			if fv.Kind() == reflect.Bool {
				fv.SetBool(protowire.DecodeBool(x))
			} else {
				fv.SetInt(int64(x))
			}
			continue
		}

		val, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(string(val))
		case isBytes(fv.Type()):
			fv.SetBytes(append([]byte(nil), val...))
		case isMessagePtr(fv.Type()):
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			if err := unmarshalMessage(val, fv.Elem()); err != nil {
				return err
			}
		case fv.Kind() == reflect.Slice && isMessagePtr(fv.Type().Elem()):
			elem := reflect.New(fv.Type().Elem().Elem())
			if err := unmarshalMessage(val, elem.Elem()); err != nil {
				return err
			}
			fv.Set(reflect.Append(fv, elem))
		default:
			return fmt.Errorf("proto: %s field %d: unsupported type %s", v.Type().Name(), num, fv.Type())
		}
	}
	return nil
}

func fieldByNumber(v reflect.Value, fields []wireField, num protowire.Number) (reflect.Value, bool) {
	for _, f := range fields {
		if f.num == num {
			return v.Field(f.index), true
		}
	}
	return reflect.Value{}, false
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

func isMessagePtr(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct
}
