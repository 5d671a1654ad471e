// Package clone produces independent deep copies of decoded documents.
//
// Copies are structural (reflection based) rather than a JSON round trip, so
// typed structs and json.Number values keep their types. Functions, channels
// and unsafe pointers are shared with the source, and unexported struct
// fields are left at their zero value.
package clone

import "reflect"

// Value returns a deep copy of v. A nil input yields nil.
func Value(v any) any {
	if v == nil {
		return nil
	}
	copied := cloneValue(reflect.ValueOf(v))
	if !copied.IsValid() {
		return nil
	}
	return copied.Interface()
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		copied := reflect.New(v.Type().Elem())
		copied.Elem().Set(cloneValue(v.Elem()))
		return copied
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		copied := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			field := copied.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return copied
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		copied := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			copied.SetMapIndex(iter.Key(), cloneElem(iter.Value(), v.Type().Elem()))
		}
		return copied
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		copied := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			copied.Index(i).Set(cloneElem(v.Index(i), v.Type().Elem()))
		}
		return copied
	case reflect.Array:
		copied := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			copied.Index(i).Set(cloneElem(v.Index(i), v.Type().Elem()))
		}
		return copied
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}

// cloneElem copies a container element, restoring the zero value of the
// element type when the element is a nil interface.
func cloneElem(v reflect.Value, elemType reflect.Type) reflect.Value {
	copied := cloneValue(v)
	if !copied.IsValid() {
		return reflect.Zero(elemType)
	}
	return copied
}
