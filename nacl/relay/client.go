package relay

import (
	"context"

	"github.com/TheusHen/tweetnacl/internal/transport/quic"
	"github.com/TheusHen/tweetnacl/internal/wire"
	"github.com/TheusHen/tweetnacl/nacl/secretbox"
	"github.com/TheusHen/tweetnacl/nacl/sign"
)

// Client copies to and pastes from a relay. Content is sealed with
// EncryptSk before it leaves the client, so the server only sees ciphertext.
type Client struct {
	Connect   string
	Psk       []byte
	EncryptSk *secretbox.Key
	// SignSk is only needed to copy.
	SignSk    *sign.SecretKey
	SignPk    *sign.PublicKey
	Transport quic.Config
}

// roundTrip runs one authenticated request on a fresh stream.
func (c *Client) roundTrip(ctx context.Context, req wire.Frame, want wire.MessageType) ([]byte, error) {
	if err := checkPsk(c.Psk); err != nil {
		return nil, err
	}
	conn, err := quic.Dial(ctx, c.Connect, c.Transport)
	if err != nil {
		return nil, err
	}
	defer conn.CloseWithError(0, "")

	st, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	if err := clientHandshake(st, c.Psk); err != nil {
		return nil, err
	}
	if err := wire.WriteFrame(st, req); err != nil {
		return nil, err
	}
	payload, err := wire.Expect(st, want)
	if err != nil {
		return nil, fromRemote(err)
	}
	return payload, nil
}

// Copy seals and signs content and stores it on the relay.
func (c *Client) Copy(ctx context.Context, content []byte) error {
	if c.EncryptSk == nil || c.SignSk == nil {
		return ErrMissingKey
	}
	sealer, err := secretbox.NewSealer(*c.EncryptSk)
	if err != nil {
		return err
	}
	m := wire.Copy{Signer: c.SignSk.Public(), Payload: sealer.Seal(content)}
	copy(m.Signature[:], sign.SignDetached(m.Payload, c.SignSk))

	_, err = c.roundTrip(ctx, wire.Frame{Type: wire.MessageTypeCopy, Payload: m.Marshal()}, wire.MessageTypeAck)
	return err
}

// Paste fetches the content last copied by SignPk, verifies it and opens it.
func (c *Client) Paste(ctx context.Context) ([]byte, error) {
	if c.EncryptSk == nil || c.SignPk == nil {
		return nil, ErrMissingKey
	}
	req := wire.Paste{Signer: *c.SignPk}
	payload, err := c.roundTrip(ctx, wire.Frame{Type: wire.MessageTypePaste, Payload: req.Marshal()}, wire.MessageTypeContent)
	if err != nil {
		return nil, err
	}
	content, err := wire.UnmarshalContent(payload)
	if err != nil {
		return nil, err
	}
	if !sign.VerifyDetached(content.Payload, content.Signature[:], c.SignPk) {
		return nil, ErrBadSignature
	}
	return secretbox.OpenWithNonce(content.Payload, c.EncryptSk)
}
