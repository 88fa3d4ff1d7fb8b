package ojson

import (
	"bytes"
	"encoding/json"
)

// Marshal serializes v back to JSON, preserving every object's
// insertion order.
func Marshal(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v *Value) error {
	switch v.Kind {
	case KindObject:
		return writeObject(buf, v.Obj)
	case KindArray:
		return writeArray(buf, v.Arr)
	case KindString:
		return writeJSON(buf, v.Str)
	case KindNumber:
		buf.WriteString(string(v.Num))
		return nil
	case KindBool:
		return writeJSON(buf, v.Bool)
	case KindNull:
		buf.WriteString("null")
		return nil
	default:
		buf.WriteString("null")
		return nil
	}
}

func writeObject(buf *bytes.Buffer, o *Object) error {
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		val, _ := o.Get(key)
		if err := writeValue(buf, val); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, elems []*Value) error {
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeJSON leans on encoding/json for correct escaping of primitive
// values; only object member ordering is hand-rolled here.
func writeJSON(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
