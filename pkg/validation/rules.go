package validation

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

	// dangerousContent is a denylist, not an HTML sanitizer. Encoded or
	// obfuscated payloads get through it.
	dangerousContent = regexp.MustCompile(`(?i)<script|javascript:|on\w+\s*=`)
)

// IsUUID accepts only the canonical 8-4-4-4-12 hex form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func IsEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsSecureRedirect allows https targets and plain http on localhost.
func IsSecureRedirect(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "https":
		return true
	case "http":
		return u.Hostname() == "localhost"
	}
	return false
}

func ContainsDangerousContent(s string) bool {
	return dangerousContent.MatchString(s)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Shared field builders.

func UUIDField() *StringField {
	return String().UUID("Invalid ID format. Must be a valid UUID.")
}

func SecureURLField() *StringField {
	return String().
		URL("Invalid URL format.").
		Refine(IsSecureRedirect, "URL must use HTTPS protocol")
}

// EmailField checks format and length, then lower-cases and trims.
func EmailField() *StringField {
	return String().
		Email("Invalid email format").
		Max(254, "Email address too long").
		ToLower().
		Trim()
}

// SanitizedField bounds length, trims, then rejects script-like content.
func SanitizedField(max int) *StringField {
	return String().
		Max(max, "Text too long").
		Trim().
		Refine(func(s string) bool { return !ContainsDangerousContent(s) }, "Invalid characters detected")
}
