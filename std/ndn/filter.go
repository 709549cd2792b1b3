package ndn

import enc "github.com/ndn-go/face/std/encoding"

// InterestFilter matches Interests whose name begins with Prefix and,
// if Regex is non-empty, whose trailing components (past Prefix)
// satisfy it. Regex uses the same bracketed-component pattern grammar
// as NamePattern; it is accepted unparsed here and compiled lazily on
// the first Match call, so a malformed pattern surfaces as an error
// from Match rather than at construction time.
type InterestFilter struct {
	Prefix        enc.Name
	Regex         string
	AllowLoopback bool

	pattern    enc.NamePattern
	patternErr error
	compiled   bool
}

// NewInterestFilter builds a filter with AllowLoopback defaulting to
// true, matching ndn-cxx's InterestFilter default.
func NewInterestFilter(prefix enc.Name, regex string) *InterestFilter {
	return &InterestFilter{Prefix: prefix, Regex: regex, AllowLoopback: true}
}

// ErrFilterPattern wraps a failure to compile or apply a filter's
// regex, surfaced only when a matching attempt is actually made.
type ErrFilterPattern struct {
	Regex string
	Err   error
}

func (e ErrFilterPattern) Error() string {
	return "interest filter pattern error on \"" + e.Regex + "\": " + e.Err.Error()
}

func (e ErrFilterPattern) Unwrap() error { return e.Err }

// Match reports whether name satisfies the filter: Prefix is a prefix
// of name, and, if Regex is set, the remaining components match it.
func (f *InterestFilter) Match(name enc.Name) (bool, error) {
	if !f.Prefix.IsPrefix(name) {
		return false, nil
	}
	if f.Regex == "" {
		return true, nil
	}
	if !f.compiled {
		f.pattern, f.patternErr = enc.NamePatternFromStr(f.Regex)
		f.compiled = true
	}
	if f.patternErr != nil {
		return false, ErrFilterPattern{Regex: f.Regex, Err: f.patternErr}
	}
	suffix := name[len(f.Prefix):]
	if len(f.pattern) != len(suffix) {
		return false, nil
	}
	for i, cp := range f.pattern {
		if !cp.IsMatch(suffix[i]) {
			return false, nil
		}
	}
	return true, nil
}
