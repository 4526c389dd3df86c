package feed

import (
	"bytes"
	"slices"

	"github.com/mmcdole/gofeed"
)

const (
	DialectRSS  = "RSS"
	DialectAtom = "ATOM"
)

// dialects is the registry of supported feed formats, keyed by the exact,
// case-sensitive dialect code.
var dialects = map[string]func() Dialect{
	DialectRSS:  func() Dialect { return RSS{} },
	DialectAtom: func() Dialect { return Atom{} },
}

// SelectDialect maps a dialect code to its implementation.
func SelectDialect(code string) (Dialect, error) {
	newDialect, ok := dialects[code]
	if !ok {
		return nil, &UnknownDialectError{Code: code}
	}
	return newDialect(), nil
}

// ForDialect returns a Parser for the dialect code. An unknown code fails
// before any document is looked at.
func ForDialect(code string, opts ...Option) (*Parser, error) {
	dialect, err := SelectDialect(code)
	if err != nil {
		return nil, err
	}
	return NewParser(dialect, opts...), nil
}

// Dialects lists the registered dialect codes in sorted order.
func Dialects() []string {
	codes := make([]string, 0, len(dialects))
	for code := range dialects {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// DetectDialect sniffs the document root and returns the matching dialect
// code, for callers that were not told which dialect to expect.
func DetectDialect(data []byte) (string, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeRSS:
		return DialectRSS, nil
	case gofeed.FeedTypeAtom:
		return DialectAtom, nil
	case gofeed.FeedTypeJSON:
		return "", &UnknownDialectError{Code: "JSON"}
	default:
		return "", &UnknownDialectError{}
	}
}
