package encryption

import (
	"crypto/rand"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/ecies"
)

// EciesScheme is a hybrid scheme on secp256k1: an ephemeral key agreement
// per ballot plus symmetric encryption of the candidate id.
type EciesScheme struct {
	priv *ecies.PrivateKey
	pub  *ecies.PublicKey
}

func NewEciesSchemeFromHex(privKeyHex string) (*EciesScheme, error) {
	ecdsaKey, err := ethcrypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse election private key: %w", err)
	}
	priv := ecies.ImportECDSA(ecdsaKey)
	return &EciesScheme{
		priv: priv,
		pub:  &priv.PublicKey,
	}, nil
}

// GenerateEciesScheme creates a fresh election keypair.
func GenerateEciesScheme() (*EciesScheme, error) {
	ecdsaKey, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	priv := ecies.ImportECDSA(ecdsaKey)
	return &EciesScheme{
		priv: priv,
		pub:  &priv.PublicKey,
	}, nil
}

func (s *EciesScheme) Name() string {
	return "ecies-secp256k1"
}

func (s *EciesScheme) Encrypt(candidateId string) ([]byte, error) {
	return ecies.Encrypt(rand.Reader, s.pub, []byte(candidateId), nil, nil)
}

func (s *EciesScheme) Decrypt(ciphertext []byte) (string, error) {
	if s.priv == nil {
		return "", fmt.Errorf("decrypt called on an encrypt-only scheme")
	}
	plain, err := s.priv.Decrypt(ciphertext, nil, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (s *EciesScheme) Public() Encrypter {
	return &EciesScheme{pub: s.pub}
}
