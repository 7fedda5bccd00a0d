// Package wire implements the rbld request/reply format.
//
// A request is one ASCII line, "<list> <ipv4>\n", with no length prefix.
// The reply carries no data: the daemon either closes the stream without
// writing (not listed) or writes at least one byte before closing (listed).
// Only the presence of a byte matters, never its value.
package wire

import (
	"errors"
	"fmt"
	"io"

	"github.com/bluehost/pam-rbld/internal/rbld/domain"
)

// ReplySize is the number of bytes read from the daemon.
const ReplySize = 1

// lineCodec implements Codec for the newline-terminated rbld protocol.
type lineCodec struct{}

// NewLineCodec returns the rbld line protocol codec.
func NewLineCodec() Codec {
	return lineCodec{}
}

// EncodeQuery serializes q as "<list> <host>\n".
func (lineCodec) EncodeQuery(q domain.Query) ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("%w: query was not built with NewQuery", domain.ErrAllocation)
	}
	list, host := q.ListID(), q.Host().String()

	buf := make([]byte, 0, len(list)+len(host)+2)
	buf = append(buf, list...)
	buf = append(buf, ' ')
	buf = append(buf, host...)
	buf = append(buf, '\n')
	return buf, nil
}

// DecodeReply maps the one-byte read. A byte received wins over any error
// reported alongside it; a bare EOF is the not-listed signal. The byte
// count is kept on the response for debug output.
func (lineCodec) DecodeReply(n int, err error) domain.Response {
	var resp domain.Response
	switch {
	case n > 0:
		resp = domain.Listed()
	case err == nil, errors.Is(err, io.EOF):
		resp = domain.NotListed()
	default:
		resp = domain.Failed(domain.NewTransportError(domain.OpRead, err))
	}
	resp.ReplyBytes = n
	return resp
}
