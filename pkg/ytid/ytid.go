// Package ytid resolves YouTube video ids from free-text input: full
// watch/share/embed/shorts URLs or a bare 11-character id.
package ytid

import "regexp"

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([\w-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([\w-]{11})`),
}

var bareId = regexp.MustCompile(`^[\w-]{11}$`)

func Extract(input string) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}

	if bareId.MatchString(input) {
		return input, true
	}

	return "", false
}
