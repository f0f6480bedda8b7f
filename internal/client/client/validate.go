package client

import (
	"reflect"
	"time"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that understands models.Timestamp:
// a zero timestamp counts as absent for "required".
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		ts, ok := field.Interface().(models.Timestamp)
		if !ok || ts.IsZero() {
			return nil
		}
		return ts.Format(time.RFC3339)
	}, models.Timestamp{})
	return v
}
