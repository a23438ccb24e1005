package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Classifier matches normalized text against a rule table whose keywords
// were normalized once at construction.
type Classifier struct {
	truck      []string
	passenger  []string
	categories []Category
	fallback   string
}

// New builds a Classifier from r.
func New(r Rules) *Classifier {
	c := &Classifier{
		truck:     normalizeAll(r.Truck),
		passenger: normalizeAll(r.Passenger),
		fallback:  strings.TrimSpace(r.Fallback),
	}
	if c.fallback == "" {
		c.fallback = Other
	}
	for _, cat := range r.Categories {
		c.categories = append(c.categories, Category{Label: cat.Label, Keywords: normalizeAll(cat.Keywords)})
	}
	return c
}

// Vehicle labels text as Truck, Passenger, Mixed or Unidentified.
func (c *Classifier) Vehicle(text string) string {
	n := Normalize(text)
	t, p := containsAny(n, c.truck), containsAny(n, c.passenger)
	switch {
	case t && p:
		return Mixed
	case t:
		return Truck
	case p:
		return Passenger
	default:
		return Unidentified
	}
}

// Category returns the first category with a keyword in text, or the fallback.
func (c *Classifier) Category(text string) string {
	n := Normalize(text)
	if n == "" {
		return c.fallback
	}
	for _, cat := range c.categories {
		if containsAny(n, cat.Keywords) {
			return cat.Label
		}
	}
	return c.fallback
}

// Labels returns the category labels in priority order followed by the fallback.
func (c *Classifier) Labels() []string {
	out := make([]string, 0, len(c.categories)+1)
	for _, cat := range c.categories {
		out = append(out, cat.Label)
	}
	return append(out, c.fallback)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if matchWord(text, k) {
			return true
		}
	}
	return false
}

// matchWord reports whether keyword occurs in text starting at a word
// boundary and, unless it ends in "*", ending at one.
func matchWord(text, keyword string) bool {
	stem := strings.HasSuffix(keyword, "*")
	k := strings.TrimSuffix(keyword, "*")
	if k == "" {
		return false
	}
	for off := 0; off <= len(text)-len(k); {
		i := strings.Index(text[off:], k)
		if i < 0 {
			return false
		}
		start, end := off+i, off+i+len(k)
		if boundaryBefore(text, start) && (stem || boundaryAfter(text, end)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		off = start + size
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
