// Package validate traduce las reglas declarativas de los DTO (go-playground/validator)
// a *domain.ValidationError con nombres de campo JSON.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/paws-pos/internal/domain"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return val
}

// Struct valida s y devuelve el acumulador de violaciones (vacío si todo está bien).
// El caller puede añadir reglas manuales y luego llamar Err().
func Struct(s any) *domain.ValidationError {
	verr := domain.NewValidationError()
	err := v.Struct(s)
	if err == nil {
		return verr
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		verr.Add("body", err.Error())
		return verr
	}
	for _, fe := range ves {
		verr.Add(fieldPath(fe), message(fe))
	}
	return verr
}

// Clean recorta espacios y normaliza a NFC, para que "Café" compuesto y descompuesto sean iguales.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CleanPtr aplica Clean sobre un puntero opcional.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := Clean(*s)
	return &c
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "uuid", "uuid4":
		return "debe ser un identificador válido"
	case "url":
		return "debe ser una URL válida"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "min":
		if isLenKind(fe.Kind()) {
			return fmt.Sprintf("debe tener al menos %s elemento(s)", fe.Param())
		}
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		if isLenKind(fe.Kind()) {
			return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
		}
		return "debe ser menor o igual a " + fe.Param()
	}
	return "no es válido (" + fe.Tag() + ")"
}

func isLenKind(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
