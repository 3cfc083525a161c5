// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const nan = "NaN"

// Sprint formats args into a single string.
//
// When the first argument is a string it is scanned for the verbs %s, %d, %i,
// %f, %j, %o, %O and %c, each one consuming the next argument, while %% is
// written as a single percent sign. Verbs without a matching argument and
// unknown verbs are written as they are. Arguments not consumed by a verb are
// appended to the result separated by a space.
func Sprint(args ...any) string {
	if len(args) == 0 {
		return ""
	}

	first, ok := args[0].(string)
	if !ok {
		return join(new(strings.Builder), args)
	}
	if len(args) == 1 {
		return first
	}

	builder := new(strings.Builder)
	rest := args[1:]
	next := 0
	for i := 0; i < len(first); i++ {
		char := first[i]
		if char != '%' || i+1 == len(first) {
			builder.WriteByte(char)
			continue
		}

		verb := first[i+1]
		if verb == '%' {
			builder.WriteByte('%')
			i++
			continue
		}

		if next == len(rest) || !strings.ContainsRune("sdifjoOc", rune(verb)) {
			builder.WriteByte(char)
			continue
		}

		builder.WriteString(formatVerb(verb, rest[next]))
		next++
		i++
	}

	if next < len(rest) {
		builder.WriteByte(' ')
		join(builder, rest[next:])
	}
	return builder.String()
}

func join(builder *strings.Builder, args []any) string {
	for i, arg := range args {
		if i > 0 {
			builder.WriteByte(' ')
		}
		if str, ok := arg.(string); ok {
			builder.WriteString(str)
			continue
		}
		builder.WriteString(inspect(arg))
	}
	return builder.String()
}

func formatVerb(verb byte, arg any) string {
	switch verb {
	case 's':
		return toString(arg)
	case 'd':
		return toNumber(arg)
	case 'i':
		return toInteger(arg)
	case 'f':
		return toFloat(arg)
	case 'j':
		data, err := json.Marshal(arg)
		if err != nil {
			return inspect(arg)
		}
		return string(data)
	case 'o', 'O':
		if str, ok := arg.(string); ok {
			return quote(str)
		}
		return inspect(arg)
	default: // %c consumes its argument without output
		return ""
	}
}

func inspect(arg any) string {
	return fmt.Sprintf("%+v", arg)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\r", "\\r", "\t", "\\t")

// quote wraps value in the first of single quotes, double quotes and backticks
// it does not contain, escaping single quotes when it contains all of them.
func quote(value string) string {
	escaped := quoteEscaper.Replace(value)
	for _, mark := range []string{"'", `"`, "`"} {
		if !strings.Contains(value, mark) {
			return mark + escaped + mark
		}
	}
	return "'" + strings.ReplaceAll(escaped, "'", "\\'") + "'"
}

func toString(arg any) string {
	switch value := arg.(type) {
	case string:
		return value
	case error, fmt.Stringer, nil, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(value)
	default:
		return inspect(value)
	}
}

func toNumber(arg any) string {
	switch value := arg.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(value)
	case float32:
		return formatFloat(float64(value))
	case float64:
		return formatFloat(value)
	case bool:
		if value {
			return "1"
		}
		return "0"
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return "0"
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nan
		}
		return formatFloat(parsed)
	default:
		return nan
	}
}

func toInteger(arg any) string {
	switch value := arg.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(value)
	case float32:
		return formatFloat(math.Trunc(float64(value)))
	case float64:
		return formatFloat(math.Trunc(value))
	case string:
		return leadingInteger(value)
	default:
		return nan
	}
}

func toFloat(arg any) string {
	switch value := arg.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(value)
	case float32:
		return formatFloat(float64(value))
	case float64:
		return formatFloat(value)
	case string:
		return leadingFloat(value)
	default:
		return nan
	}
}

// skipSign returns the position after the optional sign at start.
func skipSign(value string, start int) int {
	if start < len(value) && (value[start] == '-' || value[start] == '+') {
		return start + 1
	}
	return start
}

// skipDigits returns the position of the first non digit from start.
func skipDigits(value string, start int) int {
	end := start
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	return end
}

// leadingFloat parses the decimal prefix of value, ignoring leading spaces
// and any trailing garbage.
func leadingFloat(value string) string {
	trimmed := strings.TrimLeft(value, " \t\n\r")
	end := skipSign(trimmed, 0)
	if strings.HasPrefix(trimmed[end:], "Infinity") {
		if strings.HasPrefix(trimmed, "-") {
			return "-Infinity"
		}
		return "Infinity"
	}

	mantissaStart := end
	end = skipDigits(trimmed, end)
	digits := end - mantissaStart
	if end < len(trimmed) && trimmed[end] == '.' {
		fractionEnd := skipDigits(trimmed, end+1)
		digits += fractionEnd - end - 1
		end = fractionEnd
	}
	if digits == 0 {
		return nan
	}

	if end < len(trimmed) && (trimmed[end] == 'e' || trimmed[end] == 'E') {
		exponentStart := skipSign(trimmed, end+1)
		if exponentEnd := skipDigits(trimmed, exponentStart); exponentEnd > exponentStart {
			end = exponentEnd
		}
	}

	parsed, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nan
	}
	return formatFloat(parsed)
}

// leadingInteger parses the integer prefix of value, ignoring leading spaces
// and any trailing garbage.
func leadingInteger(value string) string {
	trimmed := strings.TrimLeft(value, " \t\n\r")
	digitsStart := skipSign(trimmed, 0)
	end := skipDigits(trimmed, digitsStart)
	if end == digitsStart {
		return nan
	}

	parsed, err := strconv.ParseInt(trimmed[:end], 10, 64)
	if err != nil {
		return nan
	}
	return strconv.FormatInt(parsed, 10)
}

func formatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return nan
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	}

	abs := math.Abs(value)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
