// Package normalize shapes and validates the free-form input the captive
// portal form submits before it is persisted.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinPhoneDigits = 8
	MaxPhoneDigits = 12
)

var (
	// local@domain where the domain contains at least one dot.
	emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	nonDigits  = regexp.MustCompile(`\D`)

	// Per-platform patterns for pulling a handle out of a pasted profile
	// URL. A leading @ is accepted for every platform.
	socialPatterns = map[string][]*regexp.Regexp{
		"facebook": {
			regexp.MustCompile(`(?i)facebook\.com/([A-Za-z0-9._-]+)`),
			regexp.MustCompile(`^@([A-Za-z0-9._-]+)$`),
		},
		"instagram": {
			regexp.MustCompile(`(?i)instagram\.com/([A-Za-z0-9._-]+)`),
			regexp.MustCompile(`^@([A-Za-z0-9._-]+)$`),
		},
		"twitter": {
			regexp.MustCompile(`(?i)(?:twitter|x)\.com/([A-Za-z0-9_]+)`),
			regexp.MustCompile(`^@([A-Za-z0-9_]+)$`),
		},
		"linkedin": {
			regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_%-]+)`),
			regexp.MustCompile(`^@([A-Za-z0-9._-]+)$`),
		},
	}
)

// ValidationError reports which submitted field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Email trims and lowercases an address and checks it looks like
// local@domain with a dotted domain part.
func Email(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return "", &ValidationError{Field: "email", Message: "Email must look like name@example.com"}
	}
	return s, nil
}

// Phone accepts any formatting (spaces, dashes, country prefix) as long as
// the digit count lands between 8 and 12. The value is stored as submitted.
func Phone(s string) (string, error) {
	s = strings.TrimSpace(s)
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return "", &ValidationError{
			Field:   "phone",
			Message: fmt.Sprintf("Phone must contain between %d and %d digits", MinPhoneDigits, MaxPhoneDigits),
		}
	}
	return s, nil
}

// SocialHandle extracts the handle from a pasted profile URL or @mention for
// the given platform. Input that matches no pattern is returned unchanged so
// visitors can type a bare handle directly.
func SocialHandle(platform, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, re := range socialPatterns[platform] {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}
	return raw
}
