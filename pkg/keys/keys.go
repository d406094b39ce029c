// Package keys implements the Store's addressing model: partitions,
// keys, and path elements, plus the completeness checks the connector
// relies on before it will ever construct a mutation.
package keys

import "fmt"

// Partition addresses a (projectId, databaseId, namespace) triple.
// An empty Namespace denotes the default namespace and must never be
// sent as a set field on the wire; see partitionID in pkg/connector.
type Partition struct {
	ProjectID  string
	DatabaseID string
	Namespace  string
}

// PathElement is one segment of a Key's path: a kind plus either a
// numeric id or a string name.
type PathElement struct {
	Kind string
	ID   int64
	Name string
}

// HasID reports whether this element was assigned a non-zero numeric id.
func (p PathElement) HasID() bool { return p.ID != 0 }

// HasName reports whether this element was assigned a non-empty name.
func (p PathElement) HasName() bool { return p.Name != "" }

// Key is an ordered path of PathElements.
type Key struct {
	Partition Partition
	Path      []PathElement
}

// Complete reports whether the key's leaf element has an id or a name.
// An empty path is never complete.
func (k Key) Complete() bool {
	if len(k.Path) == 0 {
		return false
	}
	leaf := k.Path[len(k.Path)-1]
	return leaf.HasID() || leaf.HasName()
}

// Kind returns the kind of the leaf path element, or "" for an empty key.
func (k Key) Kind() string {
	if len(k.Path) == 0 {
		return ""
	}
	return k.Path[len(k.Path)-1].Kind
}

// Encode produces a stable string identity for the key, suitable for
// use as a dedup map key within a single batch. It is not a wire
// format; it only needs to be injective over complete keys.
func (k Key) Encode() string {
	s := k.Partition.ProjectID + "\x1f" + k.Partition.DatabaseID + "\x1f" + k.Partition.Namespace
	for _, e := range k.Path {
		if e.HasID() {
			s += fmt.Sprintf("\x1e%s:%d", e.Kind, e.ID)
		} else {
			s += fmt.Sprintf("\x1e%s:%s", e.Kind, e.Name)
		}
	}
	return s
}

// ErrIncompleteKey is returned when a mutation is constructed from a
// key whose leaf path element carries neither an id nor a name.
type ErrIncompleteKey struct {
	Key Key
}

func (e ErrIncompleteKey) Error() string {
	return fmt.Sprintf("hkv: key for kind %q is incomplete: the connector never synthesizes keys", e.Key.Kind())
}

// RequireComplete validates that a key is complete, returning
// ErrIncompleteKey otherwise. Callers in pkg/writer invoke this before
// ever touching the network, favoring a local configuration error over
// a failed round trip.
func RequireComplete(k Key) error {
	if !k.Complete() {
		return ErrIncompleteKey{Key: k}
	}
	return nil
}
