// Package parser turns free-text legacy spell fields into structured specs.
//
// Each field family owns an ordered list of rules tried from most to least
// specific; the first rule that matches wins. When no rule matches, or a
// matched rule rejects its input, the field degrades to a fallback variant
// that keeps the original text verbatim in raw_legacy_value alongside neutral
// defaults. Parsers never return errors: callers inspect IsFallback on the
// result and log the record id, field, and original string themselves.
//
// Empty input means the field is absent and yields nil, except for magic
// resistance, where it is the explicit unknown kind. The literal keyword
// "special" is a recognized value rather than a fallback.
package parser
