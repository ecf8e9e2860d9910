package recap

import (
	"regexp"
	"strings"
)

var (
	spaceRun       = regexp.MustCompile(`\s+`)
	leadingSep     = regexp.MustCompile(`^[-:]\s*`)
	trailingSep    = regexp.MustCompile(`\s*[-:]$`)
	vesselPrefix   = regexp.MustCompile(`(?i)^(m[/.]?[tv]\.?\s+)`)
	vesselMarkers  = regexp.MustCompile(`(?i)\s*(?:ex-name|built|dwt|flag|gears).*$`)
	yearPattern    = regexp.MustCompile(`(19|20)\d{2}`)
	numberWithUnit = regexp.MustCompile(`(?i)[\d,]+(?:\.\d+)?\s*(?:mt|tons?|tonnes?)?`)
	ratePattern    = regexp.MustCompile(`(?i)(?:usd?|us\$|\$)\s*[\d.,]+\s*(?:p?mt|per\s*mt|per\s*metric\s*ton)?`)

	punctuationOnly = regexp.MustCompile(`^[:\-\s]+$`)
	genericWord     = regexp.MustCompile(`^(?:details?|terms?|information)$`)
	stopWord        = regexp.MustCompile(`^(?:the|and|of|in|at|for|with)$`)
	numbersOnly     = regexp.MustCompile(`^\d+$`)
	letterRun       = regexp.MustCompile(`[a-zA-Z]{2,}`)
	portLetterRun   = regexp.MustCompile(`[a-zA-Z]{3,}`)
	anyDigit        = regexp.MustCompile(`\d`)
)

// cleanValue applies field-specific normalization to a raw captured value:
// separator trimming, prefix stripping, year extraction, numeric+unit
// extraction, and truncation at common delimiters.
func cleanValue(termType, value string) string {
	value = strings.TrimSpace(spaceRun.ReplaceAllString(value, " "))
	value = leadingSep.ReplaceAllString(value, "")
	value = trailingSep.ReplaceAllString(value, "")

	switch termType {
	case "vessel":
		value = vesselPrefix.ReplaceAllString(value, "")
		value = vesselMarkers.ReplaceAllString(value, "")
		value = cutAt(value, ":", "\n")
		return truncate(strings.TrimSpace(value), 30)

	case "built":
		if year := yearPattern.FindString(value); year != "" {
			return year
		}
		return truncate(value, 10)

	case "dwt", "quantity":
		if m := numberWithUnit.FindString(value); m != "" {
			return strings.TrimSpace(m)
		}
		return truncate(value, 20)

	case "freight", "demurrage", "despatch":
		// Money values keep their comma grouping; the default delimiter
		// truncation would chop them.
		if m := ratePattern.FindString(value); m != "" {
			return strings.TrimSpace(m)
		}
		return truncate(value, 30)

	case "load_port", "discharge_port":
		value = cutAt(value, " to ", " and ", ",")
		return truncate(strings.TrimSpace(value), 40)

	case "charterer", "owner":
		value = cutAt(value, ",", ".", " - ")
		return truncate(strings.TrimSpace(value), 50)
	}

	value = cutAt(value, ".", " - ", ",")
	return truncate(strings.TrimSpace(value), 60)
}

// isValidValue rejects values that are pure punctuation, stray generic
// words, or fail the field-specific shape check.
func isValidValue(termType, value string) bool {
	if len(value) <= 2 {
		return false
	}
	lowered := strings.ToLower(value)
	if punctuationOnly.MatchString(lowered) || genericWord.MatchString(lowered) || stopWord.MatchString(lowered) {
		return false
	}
	switch termType {
	case "dwt", "built", "quantity":
		// Numeric fields may legitimately be bare numbers.
	default:
		if numbersOnly.MatchString(lowered) {
			return false
		}
	}

	switch termType {
	case "vessel":
		return letterRun.MatchString(value)
	case "built":
		return yearPattern.MatchString(value)
	case "dwt", "quantity":
		return anyDigit.MatchString(value)
	case "load_port", "discharge_port":
		return portLetterRun.MatchString(value)
	}
	return true
}

func cutAt(value string, separators ...string) string {
	for _, sep := range separators {
		if i := strings.Index(value, sep); i >= 0 {
			value = value[:i]
		}
	}
	return value
}

func truncate(value string, max int) string {
	if len(value) > max {
		return strings.TrimSpace(value[:max])
	}
	return value
}
