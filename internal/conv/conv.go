// Package conv contains the tolerant string to number conversions used by
// extraction. Conversions never fail, malformed input is reported as a
// warning and replaced by a zero value.
package conv

import (
	"fmt"
	"strconv"
	"strings"

	"hltvminer/internal/components/telemetry"
)

const (
	report_conv_int        = "conv.int"
	report_conv_float      = "conv.float"
	report_conv_int_pair   = "conv.int-pair"
	report_conv_float_pair = "conv.float-pair"
)

const pairCutset = " ()\n\t"

type Converter struct {
	tel telemetry.API
}

func NewConverter(tel telemetry.API) Converter {
	if tel == nil {
		tel = telemetry.NewSlogAPI()
	}
	return Converter{tel: telemetry.NewScopedAPI("conv", tel)}
}

func (c Converter) Int(s string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		c.tel.ReportWarning(report_conv_int, fmt.Errorf("convert %q to int: %w", s, err))
		return 0
	}
	return value
}

func (c Converter) Float(s string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		c.tel.ReportWarning(report_conv_float, fmt.Errorf("convert %q to float: %w", s, err))
		return 0
	}
	return value
}

// pairParts splits s on sep, strips parentheses and whitespace off each side
// and drops the empty segments left behind by repeated separators. A missing
// second side is "0".
func pairParts(s, sep string) (string, string) {
	var parts []string
	for _, part := range strings.Split(s, sep) {
		part = strings.Trim(part, pairCutset)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	switch len(parts) {
	case 0:
		return "", "0"
	case 1:
		return parts[0], "0"
	default:
		return parts[0], parts[1]
	}
}

// IntPair parses strings like "25 (12)" with sep " " or "3:1" with sep ":".
func (c Converter) IntPair(s, sep string) (int64, int64) {
	left, right := pairParts(s, sep)
	first, err := strconv.ParseInt(left, 10, 64)
	if err != nil {
		c.tel.ReportWarning(report_conv_int_pair, fmt.Errorf("convert %q to int pair: %w", s, err))
		return 0, 0
	}
	second, err := strconv.ParseInt(right, 10, 64)
	if err != nil {
		c.tel.ReportWarning(report_conv_int_pair, fmt.Errorf("convert %q to int pair: %w", s, err))
		return 0, 0
	}
	return first, second
}

// FloatPair is IntPair for floating point sides.
func (c Converter) FloatPair(s, sep string) (float64, float64) {
	left, right := pairParts(s, sep)
	first, err := strconv.ParseFloat(left, 64)
	if err != nil {
		c.tel.ReportWarning(report_conv_float_pair, fmt.Errorf("convert %q to float pair: %w", s, err))
		return 0, 0
	}
	second, err := strconv.ParseFloat(right, 64)
	if err != nil {
		c.tel.ReportWarning(report_conv_float_pair, fmt.Errorf("convert %q to float pair: %w", s, err))
		return 0, 0
	}
	return first, second
}
