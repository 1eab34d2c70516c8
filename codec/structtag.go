package codec

import (
	"fmt"
	"reflect"
	"sync"
)

// fieldMap maps a schema field name to the struct field index carrying the
// matching `thrift:"name"` tag.
type fieldMap map[string]int

var tagCache sync.Map // map[reflect.Type]fieldMap

func computeFieldMap(t reflect.Type) (fieldMap, error) {
	if cached, ok := tagCache.Load(t); ok {
		return cached.(fieldMap), nil
	}

	numField := t.NumField()
	fMap := make(fieldMap, numField)

	for i := 0; i < numField; i++ {
		tag := t.Field(i).Tag.Get("thrift")
		if tag == "" {
			continue
		}

		if _, exists := fMap[tag]; exists {
			return nil, fmt.Errorf("codec: duplicate thrift struct tag %q on %s", tag, t)
		}

		fMap[tag] = i
	}

	cached, _ := tagCache.LoadOrStore(t, fMap)

	return cached.(fieldMap), nil
}

// structToValue reflects src (a struct or pointer to one) into a value
// tree suitable for Encode.
func structToValue(src any) (map[string]any, error) {
	v := reflect.ValueOf(src)

	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("codec: EncodeValue received a nil struct pointer")
		}

		v = v.Elem()
	}

	return structValueToMap(v)
}

func structValueToMap(v reflect.Value) (map[string]any, error) {
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("codec: expected a struct, got %s", v.Kind())
	}

	fMap, err := computeFieldMap(v.Type())
	if err != nil {
		return nil, err
	}

	result := make(map[string]any, len(fMap))

	for name, idx := range fMap {
		// A nil slice field is an unset field, like a nil pointer.
		if f := v.Field(idx); f.Kind() == reflect.Slice && f.IsNil() {
			continue
		}

		val, present, err := valueFromReflect(v.Field(idx))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		if present {
			result[name] = val
		}
	}

	return result, nil
}

// valueFromReflect converts a single struct field to its value-tree
// representation. A nil pointer field reports present=false, realizing
// schema optionality without a separate marker.
func valueFromReflect(f reflect.Value) (val any, present bool, err error) {
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return nil, false, nil
		}

		return valueFromReflect(f.Elem())
	}

	switch f.Kind() {
	case reflect.Struct:
		m, err := structValueToMap(f)
		if err != nil {
			return nil, false, err
		}

		return m, true, nil

	case reflect.Slice:
		if f.Type().Elem().Kind() == reflect.Uint8 {
			return f.Bytes(), true, nil
		}

		out := make([]any, f.Len())

		for i := 0; i < f.Len(); i++ {
			elem, elemPresent, err := valueFromReflect(f.Index(i))
			if err != nil {
				return nil, false, err
			}

			if elemPresent {
				out[i] = elem
			}
		}

		return out, true, nil

	case reflect.Map:
		out := make(map[any]any, f.Len())

		iter := f.MapRange()
		for iter.Next() {
			k, _, err := valueFromReflect(iter.Key())
			if err != nil {
				return nil, false, err
			}

			v, vPresent, err := valueFromReflect(iter.Value())
			if err != nil {
				return nil, false, err
			}

			if vPresent {
				out[k] = v
			}
		}

		return out, true, nil

	default:
		return f.Interface(), true, nil
	}
}

// assignStruct decodes value onto dst, a pointer to a Go struct.
func assignStruct(value map[string]any, dst any) error {
	vPtr := reflect.ValueOf(dst)
	if vPtr.Kind() != reflect.Ptr || vPtr.IsNil() {
		return fmt.Errorf("codec: DecodeInto requires a non-nil pointer, got %T", dst)
	}

	v := vPtr.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("codec: DecodeInto requires a pointer to struct, got %T", dst)
	}

	return assignStructValue(value, v)
}

func assignStructValue(value map[string]any, v reflect.Value) error {
	fMap, err := computeFieldMap(v.Type())
	if err != nil {
		return err
	}

	for name, idx := range fMap {
		raw, ok := value[name]
		if !ok {
			continue
		}

		if err := assignValue(v.Field(idx), raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	return nil
}

// assignValue writes v into dst, growing pointers, slices, and maps as
// needed and recursing into nested structs.
func assignValue(dst reflect.Value, v any) error {
	if v == nil {
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}

		return assignValue(dst.Elem(), v)
	}

	switch dst.Kind() {
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("expected a nested struct value, got %T", v)
		}

		return assignStructValue(m, dst)

	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			b, ok := v.([]byte)
			if !ok {
				return fmt.Errorf("expected []byte, got %T", v)
			}

			dst.SetBytes(b)

			return nil
		}

		list, ok := v.([]any)
		if !ok {
			return fmt.Errorf("expected a list value, got %T", v)
		}

		out := reflect.MakeSlice(dst.Type(), len(list), len(list))

		for i, elem := range list {
			if err := assignValue(out.Index(i), elem); err != nil {
				return err
			}
		}

		dst.Set(out)

		return nil

	case reflect.Map:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return fmt.Errorf("expected a map value, got %T", v)
		}

		out := reflect.MakeMapWithSize(dst.Type(), rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			kv := reflect.New(dst.Type().Key()).Elem()
			if err := assignValue(kv, iter.Key().Interface()); err != nil {
				return err
			}

			vv := reflect.New(dst.Type().Elem()).Elem()
			if err := assignValue(vv, iter.Value().Interface()); err != nil {
				return err
			}

			out.SetMapIndex(kv, vv)
		}

		dst.Set(out)

		return nil

	default:
		rv := reflect.ValueOf(v)

		if rv.Type().AssignableTo(dst.Type()) {
			dst.Set(rv)
			return nil
		}

		if rv.Type().ConvertibleTo(dst.Type()) {
			dst.Set(rv.Convert(dst.Type()))
			return nil
		}

		return fmt.Errorf("cannot assign %s to %s", rv.Type(), dst.Type())
	}
}
