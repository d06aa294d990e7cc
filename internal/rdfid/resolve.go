package rdfid

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
)

// Identifiable is implemented by objects that carry an RDF identifier.
type Identifiable interface {
	// RDFID returns the identifier, or the zero ID if none is assigned yet.
	RDFID() ID

	// SetRDFID assigns the identifier.
	SetRDFID(ID)
}

// Ref is an embeddable Identifiable. The identifier can be set once;
// later calls to SetRDFID are ignored.
type Ref struct {
	id ID
}

// NewRef returns a Ref holding id.
func NewRef(id ID) Ref {
	return Ref{id: id}
}

// RDFID returns the assigned identifier.
func (r Ref) RDFID() ID {
	return r.id
}

// SetRDFID assigns id if no identifier has been assigned yet.
func (r *Ref) SetRDFID(id ID) {
	if r.id.IsZero() {
		r.id = id
	}
}

// identified is the read half of Identifiable. Non-pointer entity values
// satisfy it even when SetRDFID has a pointer receiver.
type identified interface {
	RDFID() ID
}

var identifiableType = reflect.TypeOf((*Identifiable)(nil)).Elem()

// Supports reports whether values of t (or *t) implement Identifiable.
func Supports(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Implements(identifiableType) || reflect.PointerTo(t).Implements(identifiableType)
}

// Resolve derives the canonical identifier of obj.
//
// IDs and URLs are wrapped directly. Identifiable objects yield their own
// identifier, which may be absent; an absent result is not an error. Any
// other value fails with a KeyError.
//
// Unclassified text that is not a URI becomes a blank node only when it is a
// valid blank node label; other text, such as "1abc", fails with a KeyError
// rather than producing an unparseable blank node.
//
// Resolve never mutates obj.
func Resolve(obj any) (ID, error) {
	switch v := obj.(type) {
	case nil:
		return ID{}, &KeyError{Value: nil, Reason: "nil does not carry an RDF identifier"}
	case ID:
		return canonical(v)
	case *url.URL:
		id, err := FromURL(v)
		if err != nil {
			return ID{}, err
		}
		return canonical(id)
	case url.URL:
		id, err := FromURL(&v)
		if err != nil {
			return ID{}, err
		}
		return canonical(id)
	case identified:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ID{}, &KeyError{Value: fmt.Sprintf("%T(nil)", v), Reason: "nil entity"}
		}
		return canonical(v.RDFID())
	default:
		return ID{}, &KeyError{Value: fmt.Sprintf("%T", obj), Reason: "does not carry an RDF identifier"}
	}
}

// canonical normalises an identifier for use in queries.
// URIs are rendered in ASCII form; unclassified text is sniffed.
func canonical(id ID) (ID, error) {
	switch id.kind {
	case KindNone:
		return ID{}, nil
	case KindURI:
		return ID{kind: KindURI, value: ASCII(id.value)}, nil
	case KindBlank:
		return id, nil
	case KindText:
		if IsURI(id.value) {
			return ID{kind: KindURI, value: id.value}, nil
		}
		if blankLabel.MatchString(id.value) {
			return ID{kind: KindBlank, value: id.value}, nil
		}
		return ID{}, &KeyError{Value: id.value, Reason: "not a URI or a valid blank node label"}
	default:
		return ID{}, &KeyError{Value: id.value, Reason: fmt.Sprintf("unknown identifier kind %d", id.kind)}
	}
}

// primaryKeyLabel is the blank node grammar accepted for primary keys.
// It only admits labels of one or two characters.
var primaryKeyLabel = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_\-0-9]?$`)

// AsPrimaryKey converts a caller-supplied value into an identifier.
//
// URLs and IDs convert directly. Other values are classified by their text
// form: an absolute URI becomes a URI identifier, a short blank node label
// becomes a blank node identifier, and anything else is rejected.
func AsPrimaryKey(raw any) (ID, error) {
	switch v := raw.(type) {
	case nil:
		return ID{}, &KeyError{Value: nil, Reason: "nil is not a valid primary key for an entity"}
	case ID:
		switch v.kind {
		case KindNone:
			return ID{}, &KeyError{Value: nil, Reason: "absent identifier is not a valid primary key"}
		case KindText:
			return classifyKey(v.value)
		default:
			return v, nil
		}
	case *url.URL:
		return FromURL(v)
	case url.URL:
		return FromURL(&v)
	case string:
		return classifyKey(v)
	case fmt.Stringer:
		return classifyKey(v.String())
	default:
		return classifyKey(fmt.Sprint(v))
	}
}

func classifyKey(s string) (ID, error) {
	if IsURI(s) {
		return ID{kind: KindURI, value: s}, nil
	}
	if primaryKeyLabel.MatchString(s) {
		return ID{kind: KindBlank, value: s}, nil
	}
	return ID{}, &KeyError{Value: s, Reason: "not a URI or a valid blank node identifier"}
}
