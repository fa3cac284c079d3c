package watch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"trainwatch/internal/jsonutil"
)

// floatPattern matches a decimal or scientific-notation number.
const floatPattern = `(-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)`

// Extractor pulls a named metric's value out of training output lines.
// Two formats are recognized: JSON lines carrying the metric as a
// numeric field, and plain text matched by a regular expression with
// one capture group for the value.
type Extractor struct {
	metric string
	re     *regexp.Regexp
}

// NewExtractor builds an extractor for metric. pattern overrides the
// default text pattern (`<metric>` followed by `=`, `:` or whitespace
// and a number) and must contain at least one capture group.
func NewExtractor(metric, pattern string) (*Extractor, error) {
	if metric == "" {
		return nil, fmt.Errorf("metric name is required")
	}
	if pattern == "" {
		pattern = fmt.Sprintf(`(?i)\b%s\b\s*[=:\s]\s*%s`, regexp.QuoteMeta(metric), floatPattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid metric pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("metric pattern %q needs a capture group for the value", pattern)
	}
	return &Extractor{metric: metric, re: re}, nil
}

// Extract returns the metric value found in line, if any.
func (x *Extractor) Extract(line string) (float64, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var m map[string]interface{}
		if jsonutil.UnmarshalLineSafe(trimmed, &m) {
			if v, ok := jsonutil.GetFloat(m, x.metric); ok {
				return v, true
			}
		}
		// JSON line without the metric; fall through to the text pattern
	}
	match := x.re.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
