package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

var (
	ErrBadSignature = errors.New("bad signature")
	ErrStaleNonce   = errors.New("stale nonce")
)

// Identity is how the ledger names the holder of pub.
func Identity(pub ed25519.PublicKey) string {
	return hex.EncodeToString(pub)
}

// RequestPayload is the byte string a client signs to authenticate a request.
// nonce must grow with every request the same identity sends.
func RequestPayload(method, path string, nonce uint64, body []byte) []byte {
	head := method + " " + path + "\n" + strconv.FormatUint(nonce, 10) + "\n"
	return append([]byte(head), body...)
}

// Sign returns the hex signature of payload under priv.
func Sign(priv ed25519.PrivateKey, payload []byte) string {
	return hex.EncodeToString(ed25519.Sign(priv, payload))
}

// Authenticate checks that signature is identity's signature of payload.
func Authenticate(identity, signature string, payload []byte) error {
	pub, err := hex.DecodeString(identity)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: malformed identity", ErrBadSignature)
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: malformed signature", ErrBadSignature)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), payload, sig) {
		return ErrBadSignature
	}
	return nil
}

// Nonces remembers the highest nonce accepted from each identity so a signed
// request cannot be replayed.
type Nonces struct {
	mu   sync.Mutex
	last map[string]uint64
}

func NewNonces() *Nonces {
	return &Nonces{last: make(map[string]uint64)}
}

// Accept records nonce for identity. It fails unless nonce is greater than
// every nonce accepted from identity before.
func (n *Nonces) Accept(identity string, nonce uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if last, ok := n.last[identity]; ok && nonce <= last {
		return fmt.Errorf("%w: %d is not above %d", ErrStaleNonce, nonce, last)
	}
	n.last[identity] = nonce
	return nil
}
