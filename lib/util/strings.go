package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// joins the listed strings together with the given separator,
// but only if the string is not empty
// e.g. CondJoin(",", "foo", "", "bar") results in "foo,bar"
// whereas strings.Join([]string{"foo", "", "bar"},",") would result in "foo,,bar"
func CondJoin(sep string, strs ...string) string {
	out := ""
	for _, s := range strs {
		if s != "" {
			if out != "" {
				out += sep
			}
			out += s
		}
	}
	return out
}

// returns the first non-empty string, or the empty string
func CoalesceStr(strs ...string) string {
	for _, s := range strs {
		if len(s) > 0 {
			return s
		}
	}
	return ""
}

// UcFirst upper-cases the first rune of s
func UcFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// LcFirst lower-cases the first rune of s
func LcFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

var wordSeparator = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Words splits s on runs of anything that is not an ASCII letter, digit or
// underscore, dropping empty segments.
func Words(s string) []string {
	return Filter(wordSeparator.Split(s, -1), func(w string) bool {
		return w != ""
	})
}

// StartsWithLetter reports whether the first byte of s is an ASCII letter
func StartsWithLetter(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func IStrsContains(list []string, target string) bool {
	return ContainsFunc(list, target, strings.EqualFold)
}
