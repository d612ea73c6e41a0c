package crawler

import "fmt"

// ErrorKind classifies a failed crawl. Ctype and Empty mean the document
// itself is unusable and the worker gives up on the URL; the other kinds
// are transient and the page is just skipped.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNetwork
	KindCtype
	KindEmpty
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "NetworkError"
	case KindCtype:
		return "CtypeError"
	case KindEmpty:
		return "EmptyDocumentError"
	case KindDecode:
		return "DecodeError"
	default:
		return "CrawlError"
	}
}

// Error is a classified crawl failure. The kind name becomes the blacklist
// reason when the document is unusable.
type Error struct {
	Kind    ErrorKind
	URL     string
	Message string
	cause   error
}

func newError(kind ErrorKind, url, message string, cause error) *Error {
	return &Error{Kind: kind, URL: url, Message: message, cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %q %s", e.Kind, e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}
