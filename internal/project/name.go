package project

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// Characters that are reserved on at least one common filesystem
	reservedChars = regexp.MustCompile(`[\x00-\x1f\\?*:";<>|/]`)
	// Windows device names, optionally followed by an extension
	reservedNames = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[1-9]|lpt[1-9])(\..*)?$`)
)

// InvalidNameError describes why a project name was rejected
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid project name %q: %s", e.Name, e.Reason)
}

// ValidateName checks that name can be used as both a directory name and a
// package name. It rejects the empty string, any whitespace, characters that
// are reserved on common filesystems, a leading or trailing dot, a leading
// dash, and Windows device names such as CON or LPT1.
func ValidateName(name string) error {
	invalid := func(reason string) error {
		return &InvalidNameError{Name: name, Reason: reason}
	}

	if name == "" {
		return invalid("name must not be empty")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return invalid("name must not contain whitespace")
	}
	if loc := reservedChars.FindStringIndex(name); loc != nil {
		return invalid(fmt.Sprintf("name must not contain %q", name[loc[0]:loc[1]]))
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return invalid("name must not start or end with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return invalid("name must not start with a dash")
	}
	if reservedNames.MatchString(name) {
		return invalid("name is reserved by the operating system")
	}
	return nil
}
