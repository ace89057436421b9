package wire

const (
	KeySize       = 32
	SignatureSize = 64
	DigestSize    = 32
)

// Hello opens a relay stream: protocol version, client randomness and the
// keyed digest proving knowledge of the pre-shared key.
type Hello struct {
	Version uint8
	R       [32]byte
	H0      [DigestSize]byte
}

func (m Hello) Marshal() []byte {
	b := make([]byte, 0, 1+32+DigestSize)
	b = append(b, m.Version)
	b = append(b, m.R[:]...)
	return append(b, m.H0[:]...)
}

func UnmarshalHello(b []byte) (Hello, error) {
	var m Hello
	if len(b) != 1+32+DigestSize {
		return m, ErrShortMessage
	}
	m.Version = b[0]
	copy(m.R[:], b[1:33])
	copy(m.H0[:], b[33:])
	return m, nil
}

// HelloAck is the server's proof of the pre-shared key.
type HelloAck struct {
	H1 [DigestSize]byte
}

func (m HelloAck) Marshal() []byte { return append([]byte(nil), m.H1[:]...) }

func UnmarshalHelloAck(b []byte) (HelloAck, error) {
	var m HelloAck
	if len(b) != DigestSize {
		return m, ErrShortMessage
	}
	copy(m.H1[:], b)
	return m, nil
}

// Copy stores a signed sealed payload under the signer's key.
type Copy struct {
	Signer    [KeySize]byte
	Signature [SignatureSize]byte
	Payload   []byte
}

func (m Copy) Marshal() []byte {
	b := make([]byte, 0, KeySize+SignatureSize+len(m.Payload))
	b = append(b, m.Signer[:]...)
	b = append(b, m.Signature[:]...)
	return append(b, m.Payload...)
}

func UnmarshalCopy(b []byte) (Copy, error) {
	var m Copy
	if len(b) < KeySize+SignatureSize {
		return m, ErrShortMessage
	}
	copy(m.Signer[:], b)
	copy(m.Signature[:], b[KeySize:])
	m.Payload = append([]byte(nil), b[KeySize+SignatureSize:]...)
	return m, nil
}

// Paste asks for the latest payload stored under Signer.
type Paste struct {
	Signer [KeySize]byte
}

func (m Paste) Marshal() []byte { return append([]byte(nil), m.Signer[:]...) }

func UnmarshalPaste(b []byte) (Paste, error) {
	var m Paste
	if len(b) != KeySize {
		return m, ErrShortMessage
	}
	copy(m.Signer[:], b)
	return m, nil
}

// Content answers a Paste.
type Content struct {
	Signature [SignatureSize]byte
	Payload   []byte
}

func (m Content) Marshal() []byte {
	b := make([]byte, 0, SignatureSize+len(m.Payload))
	b = append(b, m.Signature[:]...)
	return append(b, m.Payload...)
}

func UnmarshalContent(b []byte) (Content, error) {
	var m Content
	if len(b) < SignatureSize {
		return m, ErrShortMessage
	}
	copy(m.Signature[:], b)
	m.Payload = append([]byte(nil), b[SignatureSize:]...)
	return m, nil
}
