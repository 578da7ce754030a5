package emails

import "unicode"

// Text directions
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// rtlThreshold is the share of letters that must come from a right-to-left
// script for text to be laid out right to left
const rtlThreshold = 0.3

var rtlScripts = []*unicode.RangeTable{unicode.Hebrew, unicode.Arabic, unicode.Syriac, unicode.Thaana}

// Direction reports whether text should be rendered left to right or right
// to left. Mixed text is RTL once enough of its letters are Hebrew or Arabic.
func Direction(text string) string {
	var letters, rtl int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.In(r, rtlScripts...) {
			rtl++
		}
	}

	if letters == 0 || float64(rtl)/float64(letters) < rtlThreshold {
		return DirectionLTR
	}
	return DirectionRTL
}
