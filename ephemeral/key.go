// Package ephemeral provides sealed point-to-point transport between
// committee members: an ephemeral ECDH key pair per message plus a
// NaCl-secretbox-sealed envelope, used to carry VSS share messages and
// reshare/handoff shares without a persistent pairwise channel.
package ephemeral

import "github.com/btcsuite/btcd/btcec/v2"

// PrivateKey is an ephemeral ECDH private key.
type PrivateKey btcec.PrivateKey

// PublicKey is an ephemeral ECDH public key.
type PublicKey btcec.PublicKey

// KeyPair is a freshly-generated ECDH key pair.
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  *PublicKey
}

// GenerateKeyPair samples a new ephemeral secp256k1 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		PrivateKey: (*PrivateKey)(priv),
		PublicKey:  (*PublicKey)(priv.PubKey()),
	}, nil
}

// Bytes returns the public key's compressed encoding.
func (pub *PublicKey) Bytes() []byte {
	return (*btcec.PublicKey)(pub).SerializeCompressed()
}

// PublicKeyFromBytes parses a compressed public key encoding.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, err
	}
	return (*PublicKey)(pub), nil
}
