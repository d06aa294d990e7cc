package rdfid

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cayleygraph/quad"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Kind tags the active variant of an ID.
type Kind uint8

const (
	// KindNone is the absent identifier (zero value).
	KindNone Kind = iota

	// KindURI is an absolute URI identifier.
	KindURI

	// KindBlank is a blank node identifier.
	KindBlank

	// KindText is an unclassified textual key. Resolve turns it into
	// KindURI or KindBlank.
	KindText
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindBlank:
		return "blank"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// blankLabel is the blank node label grammar.
var blankLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// illegalURIChars never appear unescaped in a URI reference.
const illegalURIChars = " \t\r\n<>\"{}|\\^`"

// ID identifies an RDF resource. The zero value is the absent identifier.
//
// IDs are comparable; two IDs are equal when kind and value match.
type ID struct {
	kind  Kind
	value string
}

// NewURI returns a URI identifier. s must be a syntactically valid absolute URI.
func NewURI(s string) (ID, error) {
	if !IsURI(s) {
		return ID{}, &KeyError{Value: s, Reason: "not an absolute URI"}
	}
	return ID{kind: KindURI, value: s}, nil
}

// MustURI is like NewURI but panics on invalid input.
// Intended for package-level constants and tests.
func MustURI(s string) ID {
	id, err := NewURI(s)
	if err != nil {
		panic(err)
	}
	return id
}

// NewBlank returns a blank node identifier. A leading "_:" is stripped.
func NewBlank(label string) (ID, error) {
	label = strings.TrimPrefix(label, "_:")
	if !blankLabel.MatchString(label) {
		return ID{}, &KeyError{Value: label, Reason: "not a valid blank node label"}
	}
	return ID{kind: KindBlank, value: label}, nil
}

// MustBlank is like NewBlank but panics on invalid input.
func MustBlank(label string) ID {
	id, err := NewBlank(label)
	if err != nil {
		panic(err)
	}
	return id
}

// Text returns an unclassified textual key. Empty text yields the absent ID.
func Text(s string) ID {
	if s == "" {
		return ID{}
	}
	return ID{kind: KindText, value: s}
}

// FromURL wraps an absolute URL as a URI identifier.
func FromURL(u *url.URL) (ID, error) {
	if u == nil {
		return ID{}, &KeyError{Value: nil, Reason: "nil URL"}
	}
	return NewURI(u.String())
}

// FromValue converts a quad term into an ID. Only IRIs and blank nodes
// identify resources; literals are rejected.
func FromValue(v quad.Value) (ID, error) {
	switch t := v.(type) {
	case quad.IRI:
		return NewURI(string(t.Full()))
	case quad.BNode:
		return NewBlank(string(t))
	case nil:
		return ID{}, &KeyError{Value: nil, Reason: "nil term"}
	default:
		return ID{}, &KeyError{Value: v.String(), Reason: fmt.Sprintf("%T does not identify a resource", v)}
	}
}

// NewURN mints a fresh urn:uuid identifier.
func NewURN() ID {
	return ID{kind: KindURI, value: "urn:uuid:" + uuid.Must(uuid.NewV7()).String()}
}

// Kind returns the active variant.
func (id ID) Kind() Kind { return id.kind }

// IsZero reports whether id is absent.
func (id ID) IsZero() bool { return id.kind == KindNone }

// IsURI reports whether id is a URI identifier.
func (id ID) IsURI() bool { return id.kind == KindURI }

// IsBlank reports whether id is a blank node identifier.
func (id ID) IsBlank() bool { return id.kind == KindBlank }

// String returns the raw text: the URI, the blank node label, or the
// unclassified key. Absent IDs render as "".
func (id ID) String() string { return id.value }

// URL parses a URI identifier. ok is false for any other kind.
func (id ID) URL() (u *url.URL, ok bool) {
	if id.kind != KindURI {
		return nil, false
	}
	u, err := url.Parse(id.value)
	if err != nil {
		return nil, false
	}
	return u, true
}

// Value returns the quad term for id: quad.IRI for URIs, quad.BNode for
// blank nodes. Absent and unclassified IDs have no term and return nil.
func (id ID) Value() quad.Value {
	switch id.kind {
	case KindURI:
		return quad.IRI(id.value)
	case KindBlank:
		return quad.BNode(id.value)
	default:
		return nil
	}
}

// Term returns the query-text form of id: <uri> or _:label.
func (id ID) Term() string {
	v := id.Value()
	if v == nil {
		return ""
	}
	return v.String()
}

// IsURI reports whether s is a syntactically valid absolute URI.
func IsURI(s string) bool {
	if s == "" || strings.ContainsAny(s, illegalURIChars) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	// "http:" alone has no scheme-specific part.
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}

// ASCII returns the canonical ASCII form of a URI string. The text is NFC
// normalised and every non-ASCII byte is percent-encoded.
func ASCII(s string) string {
	s = norm.NFC.String(s)
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < utf8.RuneSelf {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
