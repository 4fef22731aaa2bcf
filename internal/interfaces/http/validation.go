package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
)

// validate instancia compartida; reporta los campos con su nombre JSON.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validationError devuelve el primer campo inválido de in, o nil si in es válido.
func validationError(in any) *dto.ErrorResponse {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "campo inválido (" + fe.Tag() + ")",
			Field:   fe.Field(),
		}
	}
	return &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
}

// parseDateParam acepta RFC3339 o AAAA-MM-DD. Con endOfDay una fecha sin hora cubre el día completo.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
