// =============================================================================
// Sheet Cleaner - Cell Values
// =============================================================================
//
// A spreadsheet cell holds one of four kinds of value. Value is a closed
// tagged variant over those kinds so the cleaning stages never have to guess
// what an interface{} contains.
//
//   | Kind   | Payload     | Text() rendering                       |
//   |--------|-------------|----------------------------------------|
//   | Empty  | none        | ""                                     |
//   | Text   | string      | the string, unchanged                  |
//   | Number | float64     | shortest decimal form ("90600", "1.5") |
//   | Date   | time.Time   | dd/MM/yyyy, with HH:mm:ss if not 00:00 |
//
// =============================================================================

package table

import (
	"strconv"
	"time"
)

// Kind identifies which payload a Value carries.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
	Date
)

// String returns the kind name for logs and test failures.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Text:
		return "text"
	case Number:
		return "number"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// DayMonthYear is the layout used when a date has to be rendered as text.
const DayMonthYear = "02/01/2006"

// Value is a single cell value. The zero Value is Empty.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// EmptyValue returns the empty cell value.
func EmptyValue() Value { return Value{} }

// TextValue wraps a string. The empty string is still a Text value.
func TextValue(s string) Value { return Value{kind: Text, str: s} }

// NumberValue wraps a float.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// DateValue wraps a time.
func DateValue(t time.Time) Value { return Value{kind: Date, date: t} }

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the cell holds nothing at all.
func (v Value) IsEmpty() bool { return v.kind == Empty }

// Str returns the Text payload and whether the value is Text.
func (v Value) Str() (string, bool) { return v.str, v.kind == Text }

// Float returns the Number payload and whether the value is a Number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == Number }

// Time returns the Date payload and whether the value is a Date.
func (v Value) Time() (time.Time, bool) { return v.date, v.kind == Date }

// Text renders the value the way a spreadsheet shows it as a string.
func (v Value) Text() string {
	switch v.kind {
	case Text:
		return v.str
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Date:
		if h, m, s := v.date.Clock(); h != 0 || m != 0 || s != 0 {
			return v.date.Format(DayMonthYear + " 15:04:05")
		}
		return v.date.Format(DayMonthYear)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Text:
		return v.str == o.str
	case Number:
		return v.num == o.num
	case Date:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == Empty {
		return "<empty>"
	}
	return v.Text()
}
