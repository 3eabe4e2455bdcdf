package filing

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AccountsType is the two digit stem code classifying the statements filed.
// Codes 51 to 68 are the amended variants of stems 01 to 18.
type AccountsType string

// AccountsTypeUnknown is the zero value. It never takes part in costs or submissions.
const AccountsTypeUnknown AccountsType = ""

const amendedOffset = 50

var stemLabels = map[int]string{
	1:  "Full accounts",
	2:  "Small company accounts",
	3:  "Medium company accounts",
	4:  "Group accounts",
	5:  "Dormant company accounts",
	6:  "Interim accounts",
	7:  "Initial accounts",
	8:  "Total exemption full accounts",
	9:  "Total exemption small company accounts",
	10: "Partial exemption accounts",
	11: "Audit exemption subsidiary accounts",
	12: "Filing exemption subsidiary accounts",
	13: "Micro-entity accounts",
	14: "Unaudited abridged accounts",
	15: "Audited abridged accounts",
	16: "Small full accounts",
	17: "Accounts type not available",
	18: "Dormant micro-entity accounts",
}

// LookupAccountsType resolves a stem code, ignoring surrounding spaces and case.
func LookupAccountsType(code string) (AccountsType, bool) {
	code = strings.TrimSpace(code)
	if len(code) != 2 || !isDigit(code[0]) || !isDigit(code[1]) {
		return AccountsTypeUnknown, false
	}

	n, err := strconv.Atoi(code)
	if err != nil {
		return AccountsTypeUnknown, false
	}

	if _, ok := stemLabels[stemOf(n)]; !ok {
		return AccountsTypeUnknown, false
	}

	return AccountsType(code), true
}

// IsKnown reports whether the code is, exactly, one of the stem or amended codes.
func (at AccountsType) IsKnown() bool {
	got, ok := LookupAccountsType(string(at))

	return ok && got == at
}

// IsAmended reports whether the code is an amended variant.
func (at AccountsType) IsAmended() bool {
	n, err := strconv.Atoi(string(at))

	return err == nil && at.IsKnown() && n > amendedOffset
}

// Label returns the human readable classification, or "" when unknown.
func (at AccountsType) Label() string {
	if !at.IsKnown() {
		return ""
	}

	n, _ := strconv.Atoi(string(at))
	label := stemLabels[stemOf(n)]

	if n > amendedOffset {
		return "Amended " + lowerFirst(label)
	}

	return label
}

func (at AccountsType) String() string {
	if at == AccountsTypeUnknown {
		return "unknown"
	}

	return string(at)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func stemOf(n int) int {
	if n > amendedOffset {
		return n - amendedOffset
	}

	return n
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
