package wire

import "github.com/bluehost/pam-rbld/internal/rbld/domain"

// Codec converts between domain values and the rbld line protocol.
type Codec interface {
	// EncodeQuery renders the single request line sent to the daemon.
	EncodeQuery(query domain.Query) ([]byte, error)

	// DecodeReply classifies the result of the one-byte read that follows the request.
	// n and err are the values returned by that read.
	DecodeReply(n int, err error) domain.Response
}
