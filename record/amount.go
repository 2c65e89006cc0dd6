package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a decimal(10,2) money amount held as cents. Ten significant
// digits total, two of them after the point, mirroring the prices table.
type Amount int64

// 8 integer digits + 2 cent digits
const maxAmountCents = 99_999_999_99

var errAmountPrecision = errors.New("at most two decimal places allowed")

// ParseAmount accepts the representations a JSON boundary produces:
// "3.50", 3.5, 4. Anything beyond two decimal places is refused rather
// than rounded.
func ParseAmount(v any) (Amount, error) {
	switch v := v.(type) {
	case string:
		return parseAmountString(v)
	case json.Number:
		return parseAmountString(v.String())
	case float64:
		cents := math.Round(v * 100)
		if math.Abs(v*100-cents) > 1e-6 {
			return 0, errAmountPrecision
		}
		return boundAmount(int64(cents))
	case int:
		return boundAmount(int64(v) * 100)
	case int64:
		return boundAmount(v * 100)
	}
	return 0, fmt.Errorf("cannot read %T as a money amount", v)
}

func parseAmountString(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty money amount")
	}
	orig := s
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		// "-", ".", "-." carry no digits at all
		return 0, fmt.Errorf("not a money amount: %q", orig)
	}
	if len(frac) > 2 {
		return 0, errAmountPrecision
	}
	// pad "3.5" out to 350 cents
	for len(frac) < 2 {
		frac += "0"
	}

	cents, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a money amount: %q", orig)
	}
	if neg {
		cents = -cents
	}
	return boundAmount(cents)
}

func boundAmount(cents int64) (Amount, error) {
	if cents > maxAmountCents || cents < -maxAmountCents {
		return 0, errors.New("amount out of range for decimal(10,2)")
	}
	return Amount(cents), nil
}

func (a Amount) Negative() bool {
	return a < 0
}

// String renders with exactly two decimal places, e.g. "3.50".
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// tolerate bare numbers too
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		parsed, err := ParseAmount(f)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	parsed, err := parseAmountString(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
