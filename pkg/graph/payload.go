package graph

import "slices"

// Payload is application data attached to an edge.
//
// Inserting an edge that already exists folds the new payload into the stored
// one with Merge, so accumulating payloads (connection lists, multiplicity
// counts) never lose data. Clone must return a value that shares no mutable
// state with the receiver: every edge owns its payload.
//
// A nil Payload is allowed and means "no data".
type Payload interface {
	// Merge combines other into the receiver and returns the result.
	// Implementations may ignore payloads of a different concrete type.
	Merge(other Payload) Payload
	// Clone returns an independently owned copy.
	Clone() Payload
}

func clonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	return p.Clone()
}

// Count is a multiplicity payload; merging adds the counts.
type Count int

// Merge adds other to c when other is a Count.
func (c Count) Merge(other Payload) Payload {
	if o, ok := other.(Count); ok {
		return c + o
	}
	return c
}

// Clone returns c; Count is a value type.
func (c Count) Clone() Payload { return c }

// Connection is one underlying connection record between two endpoints,
// for example the two pads that caused a component-level edge.
type Connection struct {
	From string `json:"from" yaml:"from" bson:"from"`
	To   string `json:"to" yaml:"to" bson:"to"`
}

// Connections is a list payload; merging appends.
type Connections []Connection

// Merge appends the records of other when other is a Connections list.
// The receiver is never modified in place.
func (c Connections) Merge(other Payload) Payload {
	o, ok := other.(Connections)
	if !ok {
		return c
	}
	out := make(Connections, 0, len(c)+len(o))
	out = append(out, c...)
	return append(out, o...)
}

// Clone returns a copy backed by a new array.
func (c Connections) Clone() Payload { return slices.Clone(c) }
