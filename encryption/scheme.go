package encryption

import (
	"fmt"

	"github.com/electra-shield/voting-backend/config"
)

// Encrypter seals a candidate id under the election public key. Encryption
// is randomized, so two ballots for the same candidate are never equal.
type Encrypter interface {
	Encrypt(candidateId string) ([]byte, error)
}

// Decrypter opens a sealed ballot. Only the tally engine holds one.
type Decrypter interface {
	Decrypt(ciphertext []byte) (string, error)
}

// Scheme is a full keypair. Public returns an encrypt-only view to hand to
// the request path, keeping the private key inside the tally boundary.
type Scheme interface {
	Encrypter
	Decrypter
	Name() string
	Public() Encrypter
}

// NewScheme builds the configured ballot scheme.
func NewScheme(cfg *config.ElectionConfig) (Scheme, error) {
	switch cfg.Scheme {
	case config.SchemeEcies:
		return NewEciesSchemeFromHex(cfg.TallyPrivateKey)
	case config.SchemePaillier:
		return NewPaillierScheme(cfg.GetPaillierBits())
	default:
		return nil, fmt.Errorf("unknown ballot scheme %s", cfg.Scheme)
	}
}
