package record

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date in ISO form. Keeping it a string makes it
// marshal naturally in both bson and json, and ISO dates compare
// correctly as strings.
type Date string

func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("not a date (want YYYY-MM-DD): %q", s)
	}
	return Date(s), nil
}

func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

func (d Date) String() string {
	return string(d)
}
