// Package codec implements the ledger's single deterministic binary
// encoding: the byte form every digest is computed from. It is
// length-prefixed, little-endian, and fixed-width for every integer
// kind, with no floating point and no schema evolution.
//
// The encoder walks values by reflection so that caller-defined payload,
// metadata, and record types need no hand-written marshal code. Only a
// restricted surface is supported: fixed-width integers, bool, string,
// []byte, slices of an encodable element type, arrays, and structs whose
// exported fields are all themselves encodable. Maps are deliberately
// unsupported: their natural iteration order is not insertion order, and
// silently depending on Go's randomized map order would break
// reproducibility.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/nisaacdz/blockify/internal/apperr"
)

func init() {
	apperr.Register(apperr.KindSerialization, func(err error) bool {
		var e *ErrUnsupportedType
		return errors.As(err, &e)
	})
}

// Encode serializes v into the canonical deterministic byte form. v must
// be built entirely from the supported kinds; anything else returns
// ErrUnsupportedType.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses b produced by Encode back into v, which must be a
// non-nil pointer to a value of the same shape used to encode it.
func Decode(b []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("codec: Decode target must be a non-nil pointer")
	}
	r := bytes.NewReader(b)
	if err := decodeValue(r, rv.Elem()); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("codec: %d trailing bytes after decode", r.Len())
	}
	return nil
}

// ErrUnsupportedType is returned (wrapped) when a value contains a kind
// the deterministic encoder does not support.
type ErrUnsupportedType struct {
	Kind reflect.Kind
	Type reflect.Type
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("codec: unsupported type %s (kind %s)", e.Type, e.Kind)
}

func encodeValue(w *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("codec: cannot encode invalid value")
	}
	switch v.Kind() {
	case reflect.Bool:
		var b byte
		if v.Bool() {
			b = 1
		}
		w.WriteByte(b)
		return nil
	case reflect.Int8:
		return binary.Write(w, binary.LittleEndian, int8(v.Int()))
	case reflect.Int16:
		return binary.Write(w, binary.LittleEndian, int16(v.Int()))
	case reflect.Int32:
		return binary.Write(w, binary.LittleEndian, int32(v.Int()))
	case reflect.Int64, reflect.Int:
		return binary.Write(w, binary.LittleEndian, int64(v.Int()))
	case reflect.Uint8:
		w.WriteByte(byte(v.Uint()))
		return nil
	case reflect.Uint16:
		return binary.Write(w, binary.LittleEndian, uint16(v.Uint()))
	case reflect.Uint32:
		return binary.Write(w, binary.LittleEndian, uint32(v.Uint()))
	case reflect.Uint64, reflect.Uint:
		return binary.Write(w, binary.LittleEndian, uint64(v.Uint()))
	case reflect.String:
		return encodeBytes(w, []byte(v.String()))
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return encodeBytes(w, v.Bytes())
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(v.Len())); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := encodeValue(w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := encodeValue(w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		if v.IsNil() {
			w.WriteByte(0)
			return nil
		}
		w.WriteByte(1)
		return encodeValue(w, v.Elem())
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if field.PkgPath != "" { // unexported
				continue
			}
			if err := encodeValue(w, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ErrUnsupportedType{Kind: v.Kind(), Type: v.Type()}
	}
}

func encodeBytes(w *bytes.Buffer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func decodeValue(r *bytes.Reader, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		v.SetBool(b != 0)
		return nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		i, err := readInt64(r, v.Kind())
		if err != nil {
			return err
		}
		v.SetInt(i)
		return nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, err := readUint64(r, v.Kind())
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil
	case reflect.String:
		b, err := decodeBytesRaw(r)
		if err != nil {
			return err
		}
		v.SetString(string(b))
		return nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := decodeBytesRaw(r)
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return err
		}
		out := reflect.MakeSlice(v.Type(), int(n), int(n))
		for i := 0; i < int(n); i++ {
			if err := decodeValue(r, out.Index(i)); err != nil {
				return err
			}
		}
		v.Set(out)
		return nil
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := decodeValue(r, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		tag, err := r.ReadByte()
		if err != nil {
			return err
		}
		if tag == 0 {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		elem := reflect.New(v.Type().Elem())
		if err := decodeValue(r, elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if field.PkgPath != "" {
				continue
			}
			if err := decodeValue(r, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ErrUnsupportedType{Kind: v.Kind(), Type: v.Type()}
	}
}

func decodeBytesRaw(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func readInt64(r *bytes.Reader, kind reflect.Kind) (int64, error) {
	switch kind {
	case reflect.Int8:
		var x int8
		err := binary.Read(r, binary.LittleEndian, &x)
		return int64(x), err
	case reflect.Int16:
		var x int16
		err := binary.Read(r, binary.LittleEndian, &x)
		return int64(x), err
	case reflect.Int32:
		var x int32
		err := binary.Read(r, binary.LittleEndian, &x)
		return int64(x), err
	default: // Int, Int64 both encode as 8 bytes
		var x int64
		err := binary.Read(r, binary.LittleEndian, &x)
		return x, err
	}
}

func readUint64(r *bytes.Reader, kind reflect.Kind) (uint64, error) {
	switch kind {
	case reflect.Uint8:
		x, err := r.ReadByte()
		return uint64(x), err
	case reflect.Uint16:
		var x uint16
		err := binary.Read(r, binary.LittleEndian, &x)
		return uint64(x), err
	case reflect.Uint32:
		var x uint32
		err := binary.Read(r, binary.LittleEndian, &x)
		return uint64(x), err
	default: // Uint, Uint64
		var x uint64
		err := binary.Read(r, binary.LittleEndian, &x)
		return x, err
	}
}
