package handlers

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// unknownFieldPath ищет полный путь неизвестного ключа (profile.middleName).
// encoding/json сообщает только имя ключа; если путь не найден, возвращается имя.
func unknownFieldPath(data []byte, obj interface{}, field string) string {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return field
	}
	if path, ok := findUnknownField(raw, reflect.TypeOf(obj), "", field); ok {
		return path
	}
	return field
}

func findUnknownField(value interface{}, t reflect.Type, prefix, field string) (string, bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || reflect.PointerTo(t).Implements(jsonUnmarshalerType) {
		return "", false
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return "", false
		}
		fields := jsonFields(t)
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ft, known := lookupField(fields, k)
			if !known {
				if k == field {
					return joinPath(prefix, k), true
				}
				continue
			}
			if path, ok := findUnknownField(obj[k], ft, joinPath(prefix, k), field); ok {
				return path, true
			}
		}
	case reflect.Slice, reflect.Array:
		items, ok := value.([]interface{})
		if !ok {
			return "", false
		}
		for i, item := range items {
			if path, ok := findUnknownField(item, t.Elem(), prefix+"["+strconv.Itoa(i)+"]", field); ok {
				return path, true
			}
		}
	case reflect.Map:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return "", false
		}
		for k, v := range obj {
			if path, ok := findUnknownField(v, t.Elem(), joinPath(prefix, k), field); ok {
				return path, true
			}
		}
	}
	return "", false
}

// jsonFields - имена полей по json тегам, включая встроенные структуры
func jsonFields(t reflect.Type) map[string]reflect.Type {
	out := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for k, v := range jsonFields(ft) {
					out[k] = v
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = f.Type
	}
	return out
}

// lookupField - encoding/json сопоставляет ключи без учета регистра
func lookupField(fields map[string]reflect.Type, key string) (reflect.Type, bool) {
	if t, ok := fields[key]; ok {
		return t, true
	}
	for name, t := range fields {
		if strings.EqualFold(name, key) {
			return t, true
		}
	}
	return nil, false
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
