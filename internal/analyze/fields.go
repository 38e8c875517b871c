package analyze

import (
	"strings"
	"unicode"
)

// NormalizeField strips the bracket quoting around a field name.
func NormalizeField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// NormalizeExpression strips the brackets from every field reference of
// expr, leaving string literals alone, and returns the rewritten
// expression with the distinct fields in first-use order. The expression
// is otherwise kept in the source syntax.
func NormalizeExpression(expr string) (string, []string) {
	var (
		b      strings.Builder
		fields []string
		quote  rune
	)
	seen := make(map[string]bool)
	rs := []rune(expr)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[':
			end := indexRune(rs[i+1:], ']')
			if end < 0 {
				break
			}
			name := strings.TrimSpace(string(rs[i+1 : i+1+end]))
			b.WriteString(name)
			if name != "" && !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
			i += end + 1
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), fields
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}

// aggregations maps lower-cased Summarize actions to their canonical
// operation names. Actions not listed are converted to snake case.
var aggregations = map[string]string{
	"sum":                  "sum",
	"count":                "count",
	"countnonnull":         "count_non_null",
	"countnull":            "count_null",
	"countblank":           "count_blank",
	"countnonblank":        "count_non_blank",
	"countdistinct":        "count_distinct",
	"countdistinctnonnull": "count_distinct_non_null",
	"avg":                  "avg",
	"average":              "avg",
	"min":                  "min",
	"max":                  "max",
	"minlength":            "min_length",
	"maxlength":            "max_length",
	"first":                "first",
	"last":                 "last",
	"concat":               "concat",
	"median":               "median",
	"mode":                 "mode",
	"stddev":               "stddev",
	"variance":             "variance",
	"percentile":           "percentile",
	"groupby":              "group_by",
}

// NormalizeAggregation returns the canonical operation name of a
// Summarize action, e.g. "CountDistinct" becomes "count_distinct".
func NormalizeAggregation(action string) string {
	action = strings.TrimSpace(action)
	if op, ok := aggregations[strings.ToLower(action)]; ok {
		return op
	}
	return snake(action)
}

func snake(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		switch {
		case r == ' ' || r == '-':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1])) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
