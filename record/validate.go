package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Coerce validates the raw fields against the kind's schema and builds the
// typed row. Identifier and created_at fields are left zero; the write path
// fills them in. All field errors are collected, not just the first.
func Coerce(kind Kind, f Fields) (any, []FieldError) {
	switch kind {
	case KindUser:
		return CoerceUser(f)
	case KindDrink:
		return CoerceDrink(f)
	case KindPrice:
		return CoercePrice(f)
	}
	return nil, []FieldError{{Field: "kind", Reason: fmt.Sprintf("unknown record kind %q", kind)}}
}

func CoerceUser(f Fields) (User, []FieldError) {
	var errs fieldErrors
	u := User{
		Name:  errs.requiredString(f, "name"),
		Email: errs.requiredString(f, "email"),
	}
	return u, errs
}

func CoerceDrink(f Fields) (Drink, []FieldError) {
	var errs fieldErrors
	d := Drink{
		Name:        errs.requiredString(f, "name"),
		Description: errs.optionalString(f, "description"),
	}
	return d, errs
}

func CoercePrice(f Fields) (Price, []FieldError) {
	var errs fieldErrors
	p := Price{
		DrinkID:       errs.requiredInt(f, "drink_id"),
		Amount:        errs.requiredAmount(f, "price_amount"),
		EffectiveDate: errs.requiredDate(f, "effective_date"),
		EndDate:       errs.optionalDate(f, "end_date"),
	}

	if p.Amount.Negative() {
		errs.add("price_amount", "must be non-negative")
	}
	if p.EndDate != nil && p.EffectiveDate != "" && p.EndDate.Before(p.EffectiveDate) {
		errs.add("end_date", "must not precede effective_date")
	}
	return p, errs
}

type fieldErrors []FieldError

func (e *fieldErrors) add(field, reason string) {
	*e = append(*e, FieldError{Field: field, Reason: reason})
}

func (e *fieldErrors) requiredString(f Fields, name string) string {
	v, ok := f[name]
	if !ok || v == nil {
		e.add(name, "required field is missing")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		e.add(name, "must be a string")
		return ""
	}
	if s == "" {
		e.add(name, "must not be empty")
	}
	return s
}

func (e *fieldErrors) optionalString(f Fields, name string) string {
	v, ok := f[name]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		e.add(name, "must be a string")
		return ""
	}
	return s
}

func (e *fieldErrors) requiredInt(f Fields, name string) int64 {
	v, ok := f[name]
	if !ok || v == nil {
		e.add(name, "required field is missing")
		return 0
	}

	switch v := v.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		// encoding/json hands integers over as float64
		if v != math.Trunc(v) {
			e.add(name, "must be an integer")
			return 0
		}
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			e.add(name, "must be an integer")
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.add(name, "must be an integer")
			return 0
		}
		return n
	}
	e.add(name, "must be an integer")
	return 0
}

func (e *fieldErrors) requiredAmount(f Fields, name string) Amount {
	v, ok := f[name]
	if !ok || v == nil {
		e.add(name, "required field is missing")
		return 0
	}
	a, err := ParseAmount(v)
	if err != nil {
		e.add(name, err.Error())
		return 0
	}
	return a
}

func (e *fieldErrors) requiredDate(f Fields, name string) Date {
	v, ok := f[name]
	if !ok || v == nil {
		e.add(name, "required field is missing")
		return ""
	}
	return e.parseDate(v, name)
}

func (e *fieldErrors) optionalDate(f Fields, name string) *Date {
	v, ok := f[name]
	if !ok || v == nil {
		return nil
	}
	d := e.parseDate(v, name)
	if d == "" {
		return nil
	}
	return &d
}

func (e *fieldErrors) parseDate(v any, name string) Date {
	s, ok := v.(string)
	if !ok {
		e.add(name, "must be a date string")
		return ""
	}
	d, err := ParseDate(s)
	if err != nil {
		e.add(name, err.Error())
		return ""
	}
	return d
}
