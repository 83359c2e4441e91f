package service

import "strings"

// ResolveSiblingPosition returns the 1-based position of id within an
// ordered sibling id list. Returns ErrNotFound when id is absent.
func ResolveSiblingPosition(id string, siblings []string) (int, error) {
	for i, s := range siblings {
		if s == id {
			return i + 1, nil
		}
	}
	return 0, ErrNotFound
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// PartOrdinal renders a part's 1-based position as a roman numeral,
// the convention used for part headings ("Part III").
func PartOrdinal(pos int) string {
	if pos <= 0 {
		return ""
	}

	var sb strings.Builder
	for _, rv := range romanValues {
		for pos >= rv.value {
			sb.WriteString(rv.symbol)
			pos -= rv.value
		}
	}
	return sb.String()
}

// SectionOrdinal renders a section's 1-based position alphabetically:
// 1 -> "a", 26 -> "z", 27 -> "aa".
func SectionOrdinal(pos int) string {
	if pos <= 0 {
		return ""
	}

	var sb strings.Builder
	for pos > 0 {
		pos--
		sb.WriteByte(byte('a' + pos%26))
		pos /= 26
	}

	// digits come out lowest first
	out := []byte(sb.String())
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
