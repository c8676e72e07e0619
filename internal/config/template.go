package config

import (
	"fmt"
	"strings"
)

// Returns a [Deferred] expanding "${key}" references in s.
//
// Each reference is looked up on the querying Getter at read time and
// formatted with fmt.Sprint. A missing key fails the whole expansion. A
// "$" not followed by "{" is kept literally.
func Template(s string) Deferred {
	return func(g Getter) (any, error) {
		return expand(s, g)
	}
}

// Reports whether s contains a "${key}" reference.
func IsTemplate(s string) bool {
	i := strings.Index(s, "${")
	return i >= 0 && strings.Contains(s[i:], "}")
}

func expand(s string, g Getter) (string, error) {
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i:], '}')
		if j < 0 {
			break
		}
		b.WriteString(s[:i])

		key := s[i+2 : i+j]
		v, err := g.Get(key)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprint(v))
		s = s[i+j+1:]
	}
	b.WriteString(s)
	return b.String(), nil
}
