package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
)

// Fixed-size crypto material.
type (
	Salt  [32]byte
	Nonce [12]byte
)

// KDFParams describe the Argon2id derivation stored alongside the
// ciphertext so old files stay decryptable if the defaults move.
type KDFParams struct {
	Function    string `json:"function"`
	Memory      uint32 `json:"memory"`
	Iterations  uint32 `json:"iterations"`
	Parallelism uint8  `json:"parallelism"`
	Salt        string `json:"salt"`
	KeyLen      uint32 `json:"key_len"`
}

func defaultKDFParams() KDFParams {
	return KDFParams{
		Function:    "argon2id",
		Memory:      65536,
		Iterations:  3,
		Parallelism: 4,
		KeyLen:      32,
	}
}

// deriveKey runs Argon2id with the stored parameters.
func deriveKey(password []byte, salt Salt, params KDFParams) []byte {
	return argon2.IDKey(password, salt[:], params.Iterations, params.Memory, params.Parallelism, params.KeyLen)
}

// seal encrypts plaintext with AES-256-GCM under key.
func seal(plaintext, key []byte) ([]byte, Nonce, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, Nonce{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, Nonce{}, err
	}

	var nonce Nonce
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, Nonce{}, err
	}
	return gcm.Seal(nil, nonce[:], plaintext, nil), nonce, nil
}

// open decrypts an AES-256-GCM ciphertext.
func open(ciphertext, key []byte, nonce Nonce) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce[:], ciphertext, nil)
}

// SecureZero zeros memory holding sensitive material.
func SecureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SecureCompare performs constant-time comparison.
func SecureCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var result byte
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}
	return result == 0
}
