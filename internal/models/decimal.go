package models

import "github.com/shopspring/decimal"

// Money columns are rendered as JSON numbers rather than quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MaxDecimalExponent bounds the exponent accepted from untrusted input.
// Rendering a decimal costs time and memory linear in its exponent.
const MaxDecimalExponent = 18

// DecimalInRange reports whether d has an exponent within
// [-MaxDecimalExponent, MaxDecimalExponent].
func DecimalInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -MaxDecimalExponent && exp <= MaxDecimalExponent
}
