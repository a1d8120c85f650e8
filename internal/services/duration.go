package services

import (
	"math"
	"strings"
)

const durationPrefix = "P"

var (
	dateUnits = map[byte]int{'W': 7 * 86400, 'D': 86400}
	timeUnits = map[byte]int{'H': 3600, 'M': 60, 'S': 1}
)

// ParseDuration converts an ISO-8601 video duration such as "PT1H2M10S"
// into whole seconds. Input without the "P" prefix yields 0. A segment whose
// number is missing, malformed ("PT1.5S", "PTxM") or too large for an int is
// skipped, so the result is never negative. Week and day segments before the
// time designator are honoured for long uploads.
func ParseDuration(encoded string) int {
	if !strings.HasPrefix(encoded, durationPrefix) {
		return 0
	}

	units := dateUnits
	total := 0
	value, digits := 0, 0
	malformed := false
	for i := len(durationPrefix); i < len(encoded); i++ {
		c := encoded[i]
		switch {
		case c >= '0' && c <= '9':
			d := int(c - '0')
			if value > (math.MaxInt-d)/10 {
				malformed = true
				continue
			}
			value = value*10 + d
			digits++
		case c == 'T':
			units = timeUnits
			value, digits, malformed = 0, 0, false
		case units[c] > 0:
			if digits > 0 && !malformed && value <= (math.MaxInt-total)/units[c] {
				total += value * units[c]
			}
			value, digits, malformed = 0, 0, false
		default:
			malformed = true
		}
	}
	return total
}
