package markdown

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// KV is one key/value pair of an inline config block, kept in emission order.
type KV struct {
	Key   string
	Value string
}

// SplitHeading separates a trailing "{...}" config block from heading text.
// Text without a well-formed trailing block is returned unchanged.
func SplitHeading(text string) (title, block string) {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, "}") {
		return text, ""
	}
	open := strings.LastIndex(text, "{")
	if open <= 0 {
		return text, ""
	}
	return strings.TrimSpace(text[:open]), text[open+1 : len(text)-1]
}

// ParseConfigBlock decodes "k1: v1; k2: v2". Surrounding braces are optional.
// Pairs without a colon or with an empty key or value are skipped.
func ParseConfigBlock(block string) map[string]string {
	block = strings.TrimSpace(block)
	block = strings.TrimPrefix(block, "{")
	block = strings.TrimSuffix(block, "}")

	out := make(map[string]string)
	for _, pair := range strings.Split(block, ";") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// FormatConfigBlock renders pairs as " {k: v; k2: v2}" with a leading space,
// skipping empty values. It returns "" when nothing remains.
func FormatConfigBlock(pairs []KV) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.Value == "" {
			continue
		}
		parts = append(parts, p.Key+": "+p.Value)
	}
	if len(parts) == 0 {
		return ""
	}
	return " {" + strings.Join(parts, "; ") + "}"
}

// ParseList accepts both "[a, b, c]" and "a, b, c" and drops empty entries.
func ParseList(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[")
	value = strings.TrimSuffix(value, "]")

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatList renders items as "[a, b, c]".
func FormatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// JoinIDs renders items as "a,b,c", the compact form used inside comments.
func JoinIDs(items []string) string {
	return strings.Join(items, ",")
}

// ParseInt returns nil when value is not an integer.
func ParseInt(value string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &n
}

// ParseFloat returns ok=false when value is not a finite number.
func ParseFloat(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOr returns the parsed value or def.
func FloatOr(value string, def float64) float64 {
	if f, ok := ParseFloat(value); ok {
		return f
	}
	return def
}

// ParseBool accepts "true"/"yes"/"1" case-insensitively.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// FormatFloat renders f with the shortest representation that parses back to
// the same value ("40", "2.5").
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var commentRe = regexp.MustCompile(`^<!--\s*([A-Za-z][\w-]*)\s*:\s*(.*?)\s*-->$`)

// ParseComment decodes "<!-- key: value -->". Anchor comments without a
// colon are not key/value comments.
func ParseComment(line string) (key, value string, ok bool) {
	m := commentRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Comment renders "<!-- key: value -->".
func Comment(key, value string) string {
	return "<!-- " + key + ": " + value + " -->"
}

// IsComment reports whether the trimmed line is an HTML comment.
func IsComment(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "<!--") && strings.HasSuffix(t, "-->")
}

var inlineIDRe = regexp.MustCompile(`\s*<!--\s*id:\s*(\S+)\s*-->\s*$`)

// StripInlineID removes a trailing "<!-- id: X -->" from a line and returns
// the id it carried.
func StripInlineID(line string) (rest, id string) {
	loc := inlineIDRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, ""
	}
	return line[:loc[0]], line[loc[2]:loc[3]]
}

// WithInlineID appends a trailing id comment when id is set.
func WithInlineID(line, id string) string {
	if id == "" {
		return line
	}
	return line + " " + Comment("id", id)
}

// SplitField splits "Key: value" lines. Keys may contain spaces and dashes
// ("Hours Per Day", "Next Follow-up") but no other punctuation.
func SplitField(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	for _, r := range key {
		if r != ' ' && r != '-' && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return "", "", false
		}
	}
	return key, strings.TrimSpace(value), true
}
