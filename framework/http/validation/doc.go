// Package validation checks flat string maps against Laravel-style rule
// strings. The framework uses it for configuration values and rules-file
// fields.
//
// # Basic Usage
//
//	v := validation.Make(map[string]string{
//	    "contracts": "single",
//	    "lifetime":  "per-thread",
//	}, validation.Rules{
//	    "contracts": "nullable|in:all,first,single,convention,open-generic,explicit",
//	    "lifetime":  "required|alpha_dash",
//	})
//
//	if err := v.Validate(); err != nil {
//	    // err is *Errors; v.Errors().Bag holds the messages per field
//	}
//
// # Available Rules
//
//   - required: field must be present and non-empty
//   - nullable, sometimes: an empty value skips the remaining rules
//   - min:n, max:n: length bounds in UTF-8 characters
//   - between:lo,hi: numeric value within [lo, hi]
//   - integer, boolean: parseable as int / true,false,1,0,yes,no
//   - in:a,b,c, not_in:a,b,c: membership
//   - starts_with:a,b: value has one of the prefixes
//   - alpha_dash: letters, numbers, dashes, underscores
//   - regex:pattern: must match the pattern (the pattern may not contain "|")
//
// Rules run in order and stop at the first failure for a field. An unknown
// rule name panics.
package validation
