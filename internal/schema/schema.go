// ABOUTME: Boundary validation of values crossing component interfaces
// ABOUTME: Maps go-playground/validator failures to apperr.ValidationError

package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harper/trail/internal/apperr"
)

// Shape names used in validation errors.
const (
	ShapeSample  = "Sample"
	ShapePath    = "Path"
	ShapeDetails = "Details"
	ShapeStats   = "Stats"
	ShapePathID  = "PathID"
)

// Validator checks values against their struct-tag schema.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator with the project's custom rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("finite", isFinite)
	return &Validator{validate: v}
}

// jsonName reports fields by their JSON name so errors match the wire shape.
func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// isFinite rejects NaN and infinite floats.
func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return true
	}
}

// Crossing identifies the modules on either side of a boundary.
type Crossing struct {
	Direction apperr.Direction
	From      string
	To        string
}

// In returns the crossing for values entering module to from module from.
func In(from, to string) Crossing {
	return Crossing{Direction: apperr.Inbound, From: from, To: to}
}

// Out returns the crossing for values leaving module from toward module to.
func Out(from, to string) Crossing {
	return Crossing{Direction: apperr.Outbound, From: from, To: to}
}

// Check validates a struct value (or pointer to one) of the named shape.
func (v *Validator) Check(value any, shape string, c Crossing) error {
	if isNil(value) {
		return c.fail(shape, "", "value is required")
	}
	err := v.validate.Struct(value)
	return c.translate(shape, err)
}

// CheckID validates a path identifier.
func (v *Validator) CheckID(id string, c Crossing) error {
	err := v.validate.Var(id, "required,max=128")
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return c.fail(ShapePathID, "id", describe(verrs[0]))
		}
		return c.fail(ShapePathID, "id", err.Error())
	}
	return nil
}

// CheckAll validates every element of a slice of paths.
func (v *Validator) CheckAll(paths any, shape string, c Crossing) error {
	rv := reflect.ValueOf(paths)
	if rv.Kind() != reflect.Slice {
		return c.fail(shape, "", "expected a list")
	}
	for i := 0; i < rv.Len(); i++ {
		if err := v.Check(rv.Index(i).Interface(), shape, c); err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("[%d].%s", i, ve.Field)
			}
			return err
		}
	}
	return nil
}

func (c Crossing) translate(shape string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return c.fail(shape, fieldPath(fe), describe(fe))
	}
	return c.fail(shape, "", err.Error())
}

func (c Crossing) fail(shape, field, reason string) error {
	return &apperr.ValidationError{
		Shape:     shape,
		Field:     field,
		Direction: c.Direction,
		From:      c.From,
		To:        c.To,
		Reason:    reason,
	}
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "finite":
		return "must be a finite number"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	default:
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
