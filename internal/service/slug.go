package service

import (
	"math"
	"strings"
)

const wordsPerMinute = 200

// Slugify normalizes a string into a URL slug: lowercase, runs of
// non-alphanumerics collapse to single hyphens, no leading or trailing
// hyphen. Idempotent, so stored slugs can be re-slugified safely.
func Slugify(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	return b.String()
}

// ReadingTime estimates minutes to read markdown content at 200 wpm,
// rounded up. Empty content reads in zero minutes.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}
