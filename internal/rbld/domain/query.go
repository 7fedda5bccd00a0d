package domain

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// Query asks the daemon whether Host is present in the list ListID.
// The zero value is not a valid query; build one with NewQuery.
type Query struct {
	listID string
	host   netip.Addr
}

// NewQuery builds an immutable Query. The list identifier must be non-empty and
// free of whitespace and control characters, since it is sent as one token of a line.
func NewQuery(listID string, host netip.Addr) (Query, error) {
	if listID == "" {
		return Query{}, fmt.Errorf("%w: list identifier is empty", ErrAllocation)
	}
	if strings.IndexFunc(listID, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return Query{}, fmt.Errorf("%w: list identifier %q contains whitespace", ErrAllocation, listID)
	}
	if !host.Is4() {
		return Query{}, fmt.Errorf("%w: host %s is not IPv4", ErrAllocation, host)
	}
	return Query{listID: listID, host: host}, nil
}

// ListID returns the list identifier.
func (q Query) ListID() string { return q.listID }

// Host returns the queried address.
func (q Query) Host() netip.Addr { return q.host }

// IsValid reports whether q was built by NewQuery.
func (q Query) IsValid() bool { return q.listID != "" && q.host.Is4() }

// String renders the query for logs, without the line terminator.
func (q Query) String() string {
	return q.listID + " " + q.host.String()
}
