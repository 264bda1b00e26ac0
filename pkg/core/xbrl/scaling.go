package xbrl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrecision is the number of significant digits carried by the scaling arithmetic.
const DefaultPrecision = 38

// maxTextLen is the length beyond which non-numeric fact text is truncated.
const maxTextLen = 75

// ScalingConvention selects how the scale and decimals attributes combine into the
// power of ten applied to a parsed value.
type ScalingConvention string

const (
	// ScaleMinusDecimals applies 10^(scale-decimals): decimals=-3 multiplies by 1000.
	ScaleMinusDecimals ScalingConvention = "scale-minus-decimals"
	// ScalePlusDecimals applies 10^(scale+decimals), the older revision of the rule.
	ScalePlusDecimals ScalingConvention = "scale-plus-decimals"
	// ScaleOnly applies 10^scale and treats decimals purely as a precision hint.
	ScaleOnly ScalingConvention = "scale-only"
)

// ParseScalingConvention validates a convention name; empty means ScaleMinusDecimals.
func ParseScalingConvention(s string) (ScalingConvention, error) {
	switch c := ScalingConvention(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ScaleMinusDecimals, nil
	case ScaleMinusDecimals, ScalePlusDecimals, ScaleOnly:
		return c, nil
	default:
		return "", fmt.Errorf("unknown scaling convention %q", s)
	}
}

func (c ScalingConvention) exponent(scale, decimals int64) int64 {
	switch c {
	case ScalePlusDecimals:
		return scale + decimals
	case ScaleOnly:
		return scale
	default:
		return scale - decimals
	}
}

// ValueKind tells how a normalized value is rendered.
type ValueKind int

const (
	KindText ValueKind = iota
	KindInteger
	KindFloat
)

// Value is a normalized fact value: an integer, a float, or (possibly truncated) text.
type Value struct {
	Kind   ValueKind
	Text   string       // set for KindText
	Number *apd.Decimal // set for KindInteger and KindFloat
}

// TextValue wraps text as a Value.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// IsNumeric reports whether the value is a number.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

// Float64 returns the numeric value as a float; ok is false for text.
func (v Value) Float64() (float64, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	f, err := v.Number.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// String renders integers exactly, floats in shortest form, text verbatim.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return v.Number.Text('f')
	case KindFloat:
		f, _ := v.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return v.Text
	}
}

// MarshalJSON emits numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNumeric() {
		return []byte(v.String()), nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON reads a value written by MarshalJSON. Numbers without a fraction or
// exponent come back as integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	d, _, err := apd.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("value %s: %w", raw, err)
	}
	kind := KindInteger
	if strings.ContainsAny(raw, ".eE") {
		kind = KindFloat
	}
	*v = Value{Kind: kind, Number: d}
	return nil
}

// Scaler turns raw facts into canonical values. Its apd.Context is explicit
// per instance; no process-wide decimal state is involved.
type Scaler struct {
	ctx        *apd.Context
	convention ScalingConvention
}

// NewScaler builds a scaler with the given precision (0 means DefaultPrecision).
func NewScaler(convention ScalingConvention, precision uint32) *Scaler {
	if precision == 0 {
		precision = DefaultPrecision
	}
	if convention == "" {
		convention = ScaleMinusDecimals
	}
	return &Scaler{
		ctx:        apd.BaseContext.WithPrecision(precision),
		convention: convention,
	}
}

// Convention returns the scaler's exponent rule.
func (s *Scaler) Convention() ScalingConvention {
	return s.convention
}

// Normalize converts a fact into a number or text. It never fails: anything that
// cannot be parsed as a number comes back as text truncated to 75 characters.
func (s *Scaler) Normalize(f Fact) Value {
	raw := f.Text
	if raw == "" || raw == NotAvailable {
		return TextValue(NotAvailable)
	}

	cleaned := strings.ReplaceAll(raw, ",", "")
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}

	v, ok := s.scale(strings.TrimSpace(cleaned), f.Scale, f.Decimals, negative)
	if !ok {
		return TextValue(truncate(raw))
	}
	return v
}

func (s *Scaler) scale(text, scaleAttr, decimalsAttr string, negative bool) (Value, bool) {
	base, _, err := apd.NewFromString(text)
	if err != nil || base.Form != apd.Finite {
		return Value{}, false
	}

	scale, err := parseExponentAttr(scaleAttr)
	if err != nil {
		return Value{}, false
	}
	if strings.EqualFold(strings.TrimSpace(decimalsAttr), "inf") {
		decimalsAttr = "0"
	}
	decimals, err := parseExponentAttr(decimalsAttr)
	if err != nil {
		return Value{}, false
	}

	power := s.convention.exponent(scale, decimals)
	if power > apd.MaxExponent || power < apd.MinExponent {
		return Value{}, false
	}

	result := new(apd.Decimal)
	if _, err := s.ctx.Mul(result, base, apd.New(1, int32(power))); err != nil {
		return Value{}, false
	}
	if negative {
		result.Neg(result)
	}
	return s.classify(result)
}

// classify emits integral results as integers and everything else as floats.
func (s *Scaler) classify(d *apd.Decimal) (Value, bool) {
	integ, frac := new(apd.Decimal), new(apd.Decimal)
	d.Modf(integ, frac)
	if !frac.IsZero() {
		return Value{Kind: KindFloat, Number: d}, true
	}

	// Widen the context so a large integral result keeps every digit at exponent 0.
	wide := s.ctx.WithPrecision(s.ctx.Precision + uint32(max(int32(0), d.Exponent)))
	out := new(apd.Decimal)
	if _, err := wide.Quantize(out, d, 0); err != nil {
		return Value{}, false
	}
	if out.IsZero() {
		out.Negative = false
	}
	return Value{Kind: KindInteger, Number: out}, true
}

// parseExponentAttr reads a scale or decimals attribute; empty means 0.
func parseExponentAttr(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 32)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTextLen {
		return string(r[:maxTextLen]) + "..."
	}
	return s
}
