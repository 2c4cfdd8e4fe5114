package router

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// bindQuery fills the struct pointed by obj with URL query values. Field
// names are taken from the json tag.
func bindQuery(values url.Values, obj any) error {
	v := reflect.ValueOf(obj).Elem()
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("cannot bind query to %T", obj)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		if !values.Has(name) {
			continue
		}

		value := values.Get(name)
		if err := setField(v.Field(i), value); err != nil {
			return fmt.Errorf("invalid value of parameter %s: %w", name, err)
		}
	}

	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}

	return nil
}
