// Package sass defines the narrow contract between base64load and a Sass
// compiler host: a minimal script value model and the function table the
// host consults when a stylesheet calls a custom function.
//
// The package intentionally models only what the calling convention needs.
// A host hands a registered callback the positional argument values from the
// stylesheet call site and expects exactly one value back; base64load always
// answers with a String.
//
// Example host-side dispatch:
//
//	cb := host.Functions["base64load($source, $mimetype: null)"]
//	result, err := cb(ctx, []sass.Value{sass.NewString("logo.png"), sass.Null{}})
package sass

import "context"

// Value is a script value passed between the host and a custom function.
// The value set is closed: String, Number, Bool, and Null.
type Value interface {
	value()
}

// String is a Sass string value. Text is the literal text of the string;
// when a function wants the host to emit a quoted string literal, the
// quotes are part of Text itself.
type String struct {
	Text string
}

// Number is a Sass number with an optional unit (e.g. "px", "%").
type Number struct {
	Value float64
	Unit  string
}

// Bool is a Sass boolean value.
type Bool struct {
	Value bool
}

// Null is the Sass null value. It also marks an omitted optional argument.
type Null struct{}

func (String) value() {}
func (Number) value() {}
func (Bool) value()   {}
func (Null) value()   {}

// NewString returns a String value with the given text.
func NewString(text string) String {
	return String{Text: text}
}

// IsNull reports whether v is the null value. A nil Value counts as null so
// hosts may pass nil for omitted trailing arguments.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)

	return ok
}

// Callback is the implementation of a custom function. The host calls it
// with the positional argument values from the stylesheet; it returns one
// value or an error that fails the surrounding compilation.
//
// Implementations MUST be safe for concurrent use: the host may evaluate
// independent call sites on separate goroutines.
type Callback func(ctx context.Context, args []Value) (Value, error)

// Options is the host compiler configuration a custom function provider
// mutates when it registers itself. Functions maps a full signature string
// (e.g. "base64load($source, $mimetype: null)") to the callback the host
// invokes for matching calls.
type Options struct {
	// Functions is the host's custom function table, keyed by signature.
	// Providers create it on first registration; hosts treat a nil map as
	// an empty table.
	Functions map[string]Callback

	// IncludePaths lists extra directories the host searches for imports.
	// Not interpreted by function providers; carried here because hosts
	// pass one Options value through their whole compile pipeline.
	IncludePaths []string
}
