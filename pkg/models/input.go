package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrUnknownField = errors.New("unknown form field")

// MaxCount is the largest value a numeric field holds. The seven task
// fields summed at this bound still fit in a 32-bit int.
const MaxCount = math.MaxInt32 / 8

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// ParseCount reads the leading integer of raw the way the form's number
// inputs are read: "12abc" is 12, "3.9" is 3, anything without digits is 0.
// Negative values become 0 and large values are capped at MaxCount.
func ParseCount(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	// out-of-range input comes back saturated at the matching bound
	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return clampCount(n)
}

// SetField stores one edited form value. Text fields are kept verbatim,
// numeric fields go through ParseCount.
func (f *FormData) SetField(field, raw string) error {
	switch field {
	case FieldEmail:
		f.Email = raw
	case FieldProfession:
		f.Profession = raw
	case FieldHourlyRate:
		f.HourlyRate = ParseCount(raw)
	case FieldSocialMedia:
		f.SocialMedia = ParseCount(raw)
	case FieldCopywriting:
		f.Copywriting = ParseCount(raw)
	case FieldComments:
		f.Comments = ParseCount(raw)
	case FieldCustomerSupport:
		f.CustomerSupport = ParseCount(raw)
	case FieldNewsletters:
		f.Newsletters = ParseCount(raw)
	case FieldContentAudit:
		f.ContentAudit = ParseCount(raw)
	case FieldSalesEmails:
		f.SalesEmails = ParseCount(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Reset restores every field to its empty/zero default
func (f *FormData) Reset() {
	*f = FormData{}
}
