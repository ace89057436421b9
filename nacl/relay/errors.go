package relay

import (
	"errors"

	"github.com/TheusHen/tweetnacl/internal/wire"
)

var (
	ErrHandshakeFailed = errors.New("relay: handshake failed")
	ErrUnknownSigner   = errors.New("relay: signer not allowed")
	ErrBadSignature    = errors.New("relay: invalid signature")
	ErrReplay          = errors.New("relay: replayed content")
	ErrMalformed       = errors.New("relay: malformed request")
	ErrEmpty           = errors.New("relay: nothing stored")
	ErrRateLimited     = errors.New("relay: rate limited")
	ErrMissingKey      = errors.New("relay: missing key")
	ErrPskTooLong      = errors.New("relay: pre-shared key too long")
)

// remoteErrors are the failures a server reports back to clients by text.
var remoteErrors = []error{
	ErrUnknownSigner,
	ErrBadSignature,
	ErrReplay,
	ErrMalformed,
	ErrEmpty,
	ErrRateLimited,
}

// fromRemote maps an Error frame back to its sentinel.
func fromRemote(err error) error {
	var re *wire.RemoteError
	if !errors.As(err, &re) {
		return err
	}
	for _, known := range remoteErrors {
		if re.Message == known.Error() {
			return known
		}
	}
	return err
}
