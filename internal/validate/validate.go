package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces the registration minimum only; hashing handles the rest.
func Password(s string) bool {
	return len(s) >= 6
}

func Role(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "user", true
	}
	return s, s == "user" || s == "admin"
}

// Title validates a task title: trimmed, 1-200 characters.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, true
}

// Description allows empty but caps length.
func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 1000
}

func Status(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "pending", "in-progress", "completed":
		return s, true
	}
	return "", false
}

// ID parses a positive integer path parameter.
func ID(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
