package domain

import "strings"

// SizeCode is one of the ten garment sizes offered by the giveaway.
type SizeCode string

const (
	SizeXS  SizeCode = "XS"
	SizeS   SizeCode = "S"
	SizeM   SizeCode = "M"
	SizeL   SizeCode = "L"
	SizeXL  SizeCode = "XL"
	Size2XL SizeCode = "2XL"
	Size3XL SizeCode = "3XL"
	Size4XL SizeCode = "4XL"
	Size5XL SizeCode = "5XL"
	Size6XL SizeCode = "6XL"
)

// SizeCodes lists every size in ascending order. The order is used for sorting
// and for tie-breaking in recommendations.
var SizeCodes = []SizeCode{SizeXS, SizeS, SizeM, SizeL, SizeXL, Size2XL, Size3XL, Size4XL, Size5XL, Size6XL}

// Measurement is the printed chest/length pair for a size, in inches.
type Measurement struct {
	ChestInches  float64 `json:"chestInches"`
	LengthInches float64 `json:"lengthInches"`
}

var measurements = map[SizeCode]Measurement{
	SizeXS:  {ChestInches: 36, LengthInches: 26},
	SizeS:   {ChestInches: 38, LengthInches: 27},
	SizeM:   {ChestInches: 40, LengthInches: 28},
	SizeL:   {ChestInches: 42, LengthInches: 29},
	SizeXL:  {ChestInches: 44, LengthInches: 30},
	Size2XL: {ChestInches: 46, LengthInches: 31},
	Size3XL: {ChestInches: 48, LengthInches: 32},
	Size4XL: {ChestInches: 50, LengthInches: 33},
	Size5XL: {ChestInches: 52, LengthInches: 34},
	Size6XL: {ChestInches: 54, LengthInches: 35},
}

// aliases seen in older survey exports.
var sizeAliases = map[string]SizeCode{
	"XXL":   Size2XL,
	"XXXL":  Size3XL,
	"XXXXL": Size4XL,
}

// ParseSizeCode accepts a size in any case, with surrounding whitespace, and the
// XXL-style aliases. The second return is false when the value is not a known size.
func ParseSizeCode(value string) (SizeCode, bool) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return "", false
	}
	if alias, ok := sizeAliases[v]; ok {
		return alias, true
	}
	code := SizeCode(v)
	if _, ok := measurements[code]; ok {
		return code, true
	}
	return "", false
}

// Valid reports whether s is one of SizeCodes.
func (s SizeCode) Valid() bool {
	_, ok := measurements[s]
	return ok
}

// Index returns the position of s in SizeCodes, or -1.
func (s SizeCode) Index() int {
	for i, c := range SizeCodes {
		if c == s {
			return i
		}
	}
	return -1
}

// Measurement returns the chest/length pair for s.
func (s SizeCode) Measurement() (Measurement, bool) {
	m, ok := measurements[s]
	return m, ok
}
