package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrPendingTx    = errors.New("pending")
	ErrInvalidID    = errors.New("invalid arweave id")
	ErrBadGateway   = errors.New("bad gateway")
	ErrRequestLimit = errors.New("arweave gateway request limit")
)

func sentinelFor(code int) error {
	switch code {
	case 404:
		return ErrNotFound
	case 400:
		return ErrInvalidID
	case 202:
		return ErrPendingTx
	case 429:
		return ErrRequestLimit
	case 502, 503, 504:
		return ErrBadGateway
	default:
		return nil
	}
}

// statusError maps a gateway HTTP status code to one of the sentinel
// errors above, falling back to a generic wrapped error for anything
// else in the 4xx/5xx range. A non-empty body (a peer's /chunk endpoint
// returns a bare error token such as "chunk_too_big" in the body of a
// 400) is appended so callers can still recover the literal server
// error via errors.Is against the sentinel or string inspection of
// Error(), instead of it being silently discarded.
func statusError(code int, body []byte) error {
	sentinel := sentinelFor(code)
	if sentinel == nil {
		return errorf(code, body)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
