package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// containsWord reports whether keyword occurs in text starting at a word boundary.
// "cone" matches "cones" but not "silicone"; "rig" matches "rigs" but not "original".
// text and keyword must already be lower-case.
func containsWord(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	from := 0
	for {
		i := strings.Index(text[from:], keyword)
		if i < 0 {
			return false
		}
		pos := from + i
		if pos == 0 || !isWordByte(text[pos-1]) {
			return true
		}
		from = pos + 1
		if from >= len(text) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func matchAny(text string, keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if containsWord(text, k) {
			out = append(out, k)
		}
	}
	return out
}

var (
	heightPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*("|''|inch(?:es)?\b|in\b)(\s*\d)?`)
	jointPattern  = regexp.MustCompile(`\b(10|14|18|19)\s*mm\b`)
)

// Signal names a number extracted from product text
type Signal string

const (
	SignalHeight Signal = "height" // inches
	SignalJoint  Signal = "joint"  // millimetres
)

func extract(text string, signal Signal) (float64, bool) {
	var re *regexp.Regexp
	switch signal {
	case SignalHeight:
		re = heightPattern
	case SignalJoint:
		re = jointPattern
	default:
		return 0, false
	}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		// "2 in 1" is a combo count, not a height
		if signal == SignalHeight && m[2] == "in" && m[3] != "" {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
