package metadata

import (
	"reflect"
	"strconv"
	"strings"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
)

var (
	moneyType    = reflect.TypeOf(types.Money{})
	quantityType = reflect.TypeOf(types.Quantity(0))
)

// quantityDigits matches types.QuantityScale (1e4).
const quantityDigits = 4

// Inspect builds the definition of catalog type T from its json and
// validate tags. name is the collection name used by clients (e.g. "rubros").
func Inspect[T entity.Entity[T]](name, label, path string) EntityDef {
	var zero T
	def := EntityDef{
		Name:      name,
		Label:     label,
		Path:      path,
		CodeField: zero.CodeField(),
		Fields:    make([]FieldDef, 0),
	}
	inspectStruct(reflect.TypeOf(zero), &def)
	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if field.Anonymous {
			inspectStruct(field.Type, def)
			continue
		}

		name := jsonName(field)
		if name == "-" {
			continue
		}

		if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct {
			def.Lists = append(def.Lists, TablePartDef{
				Name:    name,
				Columns: inspectColumns(field.Type.Elem()),
			})
			continue
		}

		def.Fields = append(def.Fields, fieldDef(field, name))
	}
}

func inspectColumns(t reflect.Type) []FieldDef {
	cols := make([]FieldDef, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if name := jsonName(field); name != "-" {
			cols = append(cols, fieldDef(field, name))
		}
	}
	return cols
}

func fieldDef(field reflect.StructField, name string) FieldDef {
	def := FieldDef{
		Name:     name,
		ReadOnly: name == "id",
	}
	applyValidateTag(&def, field.Tag.Get("validate"))

	t := field.Type
	if t.Kind() == reflect.Ptr {
		def.Optional = true
		t = t.Elem()
	}

	switch {
	case t == moneyType:
		def.Type = TypeMoney
		def.Scale = int(types.PriceScale)
	case t == quantityType:
		def.Type = TypeQuantity
		def.Scale = quantityDigits
	case strings.HasSuffix(name, "_id") && t.Kind() == reflect.String:
		def.Type = TypeReference
	case t.Kind() == reflect.String:
		def.Type = TypeString
	case t.Kind() == reflect.Bool:
		def.Type = TypeBoolean
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Uint64:
		def.Type = TypeInteger
	default:
		def.Type = TypeObject
	}
	return def
}

func applyValidateTag(def *FieldDef, tag string) {
	for _, rule := range strings.Split(tag, ",") {
		switch {
		case rule == "required":
			def.Required = true
		case strings.HasPrefix(rule, "max="):
			if n, err := strconv.Atoi(strings.TrimPrefix(rule, "max=")); err == nil {
				def.MaxLength = n
			}
		}
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return field.Name
}
