package signature

import "strings"

// Kind distinguishes the two capture paths.
type Kind string

const (
	KindDrawn Kind = "drawn"
	KindTyped Kind = "typed"
)

// Artifact is a normalized acknowledgment payload: PNG bytes for a drawn
// signature, the literal trimmed name for a typed one.
type Artifact struct {
	Kind    Kind
	Payload []byte
}

// Empty reports whether the artifact represents "nothing captured".
// Callers at the sign boundary must reject empty artifacts.
func (a Artifact) Empty() bool {
	if len(a.Payload) == 0 {
		return true
	}

	if a.Kind == KindTyped {
		return strings.TrimSpace(string(a.Payload)) == ""
	}

	return false
}

// Typed builds an artifact from a typed name. The payload is the trimmed
// literal string.
func Typed(name string) Artifact {
	return Artifact{
		Kind:    KindTyped,
		Payload: []byte(strings.TrimSpace(name)),
	}
}
