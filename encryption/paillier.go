package encryption

import (
	"crypto/rand"
	"fmt"

	"github.com/roasbeef/go-go-gadget-paillier"
)

// PaillierScheme seals ballots under a Paillier keypair. The keypair is
// generated at startup and lives for the process, so this scheme suits a
// single-process election run; the durable default is ecies.
type PaillierScheme struct {
	keySize int
	priv    *paillier.PrivateKey
	pub     *paillier.PublicKey
}

func NewPaillierScheme(keySize int) (*PaillierScheme, error) {
	priv, err := paillier.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return nil, fmt.Errorf("generate paillier key: %w", err)
	}
	return &PaillierScheme{
		keySize: keySize,
		priv:    priv,
		pub:     &priv.PublicKey,
	}, nil
}

func (s *PaillierScheme) Name() string {
	return fmt.Sprintf("paillier-%d", s.keySize)
}

func (s *PaillierScheme) Encrypt(candidateId string) ([]byte, error) {
	if s.pub == nil {
		return nil, fmt.Errorf("public key not set")
	}
	return paillier.Encrypt(s.pub, []byte(candidateId))
}

func (s *PaillierScheme) Decrypt(ciphertext []byte) (string, error) {
	if s.priv == nil {
		return "", fmt.Errorf("decrypt called on an encrypt-only scheme")
	}
	if len(ciphertext) == 0 {
		return "", fmt.Errorf("ciphertext is empty")
	}
	plain, err := paillier.Decrypt(s.priv, ciphertext)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plain), nil
}

func (s *PaillierScheme) Public() Encrypter {
	return &PaillierScheme{keySize: s.keySize, pub: s.pub}
}
