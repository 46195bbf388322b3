package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

const invalidNameChars = "\\<>/?\":;*|,=`"

// Key returns the lookup key for a resource name. Two names that differ only
// in case share a key.
func Key(name string) string {
	return cases.Fold().String(name)
}

// SameName reports whether a and b name the same resource.
func SameName(a, b string) bool {
	return Key(a) == Key(b)
}

// ValidateName checks that name is usable for a resource of kind k.
func ValidateName(k Kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name is empty", ErrInvalidName, k)
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("%w: %s name %q has surrounding spaces", ErrInvalidName, k, name)
	}
	body := name
	if k.allowsStarPrefix() {
		body = strings.TrimPrefix(name, "*")
	}
	if i := strings.IndexAny(body, invalidNameChars); i >= 0 {
		return fmt.Errorf("%w: %s name %q contains %q", ErrInvalidName, k, name, body[i])
	}
	return nil
}
