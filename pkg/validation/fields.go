package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// step is either a check or a transform. Steps run in declaration order and
// the first failing check stops evaluation.
type step[T any] struct {
	check     func(T) bool
	transform func(T) T
	code      string
	message   func(T) string
}

type base[T any] struct {
	steps      []step[T]
	isOptional bool
	def        func() any
}

func (b *base[T]) optional() bool { return b.isOptional }

func (b *base[T]) fallback() (any, bool) {
	if b.def == nil {
		return nil, false
	}
	return b.def(), true
}

func (b *base[T]) addCheck(code string, message func(T) string, check func(T) bool) {
	b.steps = append(b.steps, step[T]{check: check, code: code, message: message})
}

func (b *base[T]) addTransform(fn func(T) T) {
	b.steps = append(b.steps, step[T]{transform: fn})
}

func (b *base[T]) run(v T, path []string) (T, *issue) {
	for _, s := range b.steps {
		if s.transform != nil {
			v = s.transform(v)
			continue
		}
		if !s.check(v) {
			return v, &issue{path: path, code: s.code, message: s.message(v)}
		}
	}
	return v, nil
}

func fixed[T any](msg string) func(T) string {
	return func(T) string { return msg }
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

// StringField validates JSON strings.
type StringField struct {
	base[string]
	allowEmpty bool
}

func String() *StringField {
	return &StringField{}
}

func (f *StringField) parse(value any, path []string) (any, *issue) {
	s, ok := value.(string)
	if !ok {
		return nil, typeIssue(path, "string", value)
	}
	if f.allowEmpty && s == "" {
		return s, nil
	}
	out, iss := f.run(s, path)
	if iss != nil {
		return nil, iss
	}
	return out, nil
}

func (f *StringField) Optional() *StringField {
	f.isOptional = true
	return f
}

// AllowEmpty accepts the literal empty string without running any rule.
func (f *StringField) AllowEmpty() *StringField {
	f.allowEmpty = true
	return f
}

func (f *StringField) Default(v string) *StringField {
	f.def = func() any { return v }
	return f
}

func (f *StringField) Min(n int, msg string) *StringField {
	def := fmt.Sprintf("String must contain at least %d character(s)", n)
	f.addCheck(CodeTooSmall, fixed[string](orDefault(msg, def)), func(s string) bool {
		return utf8.RuneCountInString(s) >= n
	})
	return f
}

func (f *StringField) Max(n int, msg string) *StringField {
	def := fmt.Sprintf("String must contain at most %d character(s)", n)
	f.addCheck(CodeTooBig, fixed[string](orDefault(msg, def)), func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	})
	return f
}

func (f *StringField) Matches(re *regexp.Regexp, msg string) *StringField {
	f.addCheck(CodeInvalidString, fixed[string](orDefault(msg, "Invalid")), re.MatchString)
	return f
}

// Refine adds a custom predicate.
func (f *StringField) Refine(check func(string) bool, msg string) *StringField {
	f.addCheck(CodeCustom, fixed[string](orDefault(msg, "Invalid input")), check)
	return f
}

func (f *StringField) Trim() *StringField {
	f.addTransform(strings.TrimSpace)
	return f
}

func (f *StringField) ToLower() *StringField {
	f.addTransform(strings.ToLower)
	return f
}

func (f *StringField) UUID(msg string) *StringField {
	f.addCheck(CodeInvalidString, fixed[string](orDefault(msg, "Invalid uuid")), IsUUID)
	return f
}

func (f *StringField) URL(msg string) *StringField {
	f.addCheck(CodeInvalidString, fixed[string](orDefault(msg, "Invalid url")), IsURL)
	return f
}

func (f *StringField) Email(msg string) *StringField {
	f.addCheck(CodeInvalidString, fixed[string](orDefault(msg, "Invalid email")), IsEmail)
	return f
}

// OneOf restricts the value to an enumeration.
func (f *StringField) OneOf(values []string, msg string) *StringField {
	allowed := make(map[string]struct{}, len(values))
	quoted := make([]string, len(values))
	for i, v := range values {
		allowed[v] = struct{}{}
		quoted[i] = "'" + v + "'"
	}
	message := func(got string) string {
		if msg != "" {
			return msg
		}
		return fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", strings.Join(quoted, " | "), got)
	}
	f.addCheck(CodeInvalidEnumValue, message, func(s string) bool {
		_, ok := allowed[s]
		return ok
	})
	return f
}

// NumberField validates JSON numbers. With Coerce it also accepts numeric
// strings, which is how query parameters arrive.
type NumberField struct {
	base[float64]
	coerce bool
}

func Number() *NumberField {
	return &NumberField{}
}

func (f *NumberField) parse(value any, path []string) (any, *issue) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if !f.coerce || err != nil {
			return nil, typeIssue(path, "number", value)
		}
		n = parsed
	default:
		return nil, typeIssue(path, "number", value)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, typeIssue(path, "number", value)
	}
	out, iss := f.run(n, path)
	if iss != nil {
		return nil, iss
	}
	return out, nil
}

func (f *NumberField) Coerce() *NumberField {
	f.coerce = true
	return f
}

func (f *NumberField) Optional() *NumberField {
	f.isOptional = true
	return f
}

func (f *NumberField) Default(v float64) *NumberField {
	f.def = func() any { return v }
	return f
}

func (f *NumberField) Int(msg string) *NumberField {
	f.addCheck(CodeInvalidType, fixed[float64](orDefault(msg, "Expected integer, received float")), func(n float64) bool {
		return n == math.Trunc(n)
	})
	return f
}

func (f *NumberField) Positive(msg string) *NumberField {
	f.addCheck(CodeTooSmall, fixed[float64](orDefault(msg, "Number must be greater than 0")), func(n float64) bool {
		return n > 0
	})
	return f
}

func (f *NumberField) Min(min float64, msg string) *NumberField {
	def := fmt.Sprintf("Number must be greater than or equal to %s", formatNumber(min))
	f.addCheck(CodeTooSmall, fixed[float64](orDefault(msg, def)), func(n float64) bool {
		return n >= min
	})
	return f
}

func (f *NumberField) Max(max float64, msg string) *NumberField {
	def := fmt.Sprintf("Number must be less than or equal to %s", formatNumber(max))
	f.addCheck(CodeTooBig, fixed[float64](orDefault(msg, def)), func(n float64) bool {
		return n <= max
	})
	return f
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

type BoolField struct {
	base[bool]
}

func Bool() *BoolField {
	return &BoolField{}
}

func (f *BoolField) parse(value any, path []string) (any, *issue) {
	b, ok := value.(bool)
	if !ok {
		return nil, typeIssue(path, "boolean", value)
	}
	return b, nil
}

func (f *BoolField) Optional() *BoolField {
	f.isOptional = true
	return f
}

// AnyField accepts every value, including a missing one.
type AnyField struct{}

func Any() *AnyField {
	return &AnyField{}
}

func (f *AnyField) parse(value any, _ []string) (any, *issue) { return value, nil }
func (f *AnyField) optional() bool                            { return true }
func (f *AnyField) fallback() (any, bool)                     { return nil, false }

// StringMapField validates an object whose values all match one string schema.
type StringMapField struct {
	values     *StringField
	isOptional bool
	withEmpty  bool
}

func StringMap(values *StringField) *StringMapField {
	return &StringMapField{values: values}
}

func (f *StringMapField) Optional() *StringMapField {
	f.isOptional = true
	return f
}

// DefaultEmpty substitutes an empty map when the field is missing.
func (f *StringMapField) DefaultEmpty() *StringMapField {
	f.withEmpty = true
	return f
}

func (f *StringMapField) optional() bool { return f.isOptional }

func (f *StringMapField) fallback() (any, bool) {
	if !f.withEmpty {
		return nil, false
	}
	return map[string]any{}, true
}

func (f *StringMapField) parse(value any, path []string) (any, *issue) {
	in, ok := value.(map[string]any)
	if !ok {
		return nil, typeIssue(path, "object", value)
	}
	out := make(map[string]any, len(in))
	for _, key := range sortedKeys(in) {
		parsed, iss := f.values.parse(in[key], childPath(path, key))
		if iss != nil {
			return nil, iss
		}
		out[key] = parsed
	}
	return out, nil
}

// ArrayField validates a JSON array element by element.
type ArrayField struct {
	base[[]any]
	elements Schema
}

func Array(elements Schema) *ArrayField {
	return &ArrayField{elements: elements}
}

func (f *ArrayField) Optional() *ArrayField {
	f.isOptional = true
	return f
}

func (f *ArrayField) Min(n int, msg string) *ArrayField {
	def := fmt.Sprintf("Array must contain at least %d element(s)", n)
	f.addCheck(CodeTooSmall, fixed[[]any](orDefault(msg, def)), func(items []any) bool {
		return len(items) >= n
	})
	return f
}

func (f *ArrayField) Max(n int, msg string) *ArrayField {
	def := fmt.Sprintf("Array must contain at most %d element(s)", n)
	f.addCheck(CodeTooBig, fixed[[]any](orDefault(msg, def)), func(items []any) bool {
		return len(items) <= n
	})
	return f
}

func (f *ArrayField) parse(value any, path []string) (any, *issue) {
	in, ok := value.([]any)
	if !ok {
		return nil, typeIssue(path, "array", value)
	}
	if _, iss := f.run(in, path); iss != nil {
		return nil, iss
	}
	out := make([]any, len(in))
	for i, item := range in {
		parsed, iss := f.elements.parse(item, childPath(path, strconv.Itoa(i)))
		if iss != nil {
			return nil, iss
		}
		out[i] = parsed
	}
	return out, nil
}
