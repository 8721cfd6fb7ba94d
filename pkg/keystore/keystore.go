// Package keystore stores the signing identity as an encrypted file:
// one secp256k1 key under an Argon2id-derived AES-256-GCM envelope.
package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// storageFile is the on-disk format.
type storageFile struct {
	Version      string    `json:"version"`
	Algorithm    string    `json:"algorithm"`
	KDF          KDFParams `json:"kdf"`
	Address      string    `json:"address"`
	EncryptedKey string    `json:"encrypted_key"`
	Nonce        string    `json:"nonce"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const storageAlgorithm = "argon2id-aes256gcm"

// Approver decides whether a transaction may be signed. Returning false
// rejects the signing request.
type Approver func(summary string) bool

// Keystore holds the unlocked signing identity for the session.
type Keystore struct {
	path string

	mu      sync.Mutex
	storage *storageFile
	priv    []byte // raw secp256k1 key, zeroed on Lock
	addr    common.Address
	approve Approver
}

// Open loads the keystore at path, creating it with a fresh key when the
// file does not exist. The password unlocks (or protects) the key.
func Open(path string, password []byte) (*Keystore, error) {
	k := &Keystore{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := k.create(password); err != nil {
			return nil, err
		}
		return k, nil
	}
	if err := k.load(password); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *Keystore) create(password []byte) error {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}
	raw := crypto.FromECDSA(priv)
	defer SecureZero(raw)

	var salt Salt
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	params := defaultKDFParams()
	params.Salt = base64.StdEncoding.EncodeToString(salt[:])
	key := deriveKey(password, salt, params)
	defer SecureZero(key)

	sealed, nonce, err := seal(raw, key)
	if err != nil {
		return fmt.Errorf("sealing key: %w", err)
	}

	addr := crypto.PubkeyToAddress(priv.PublicKey)
	k.storage = &storageFile{
		Version:      "1.0",
		Algorithm:    storageAlgorithm,
		KDF:          params,
		Address:      addr.Hex(),
		EncryptedKey: base64.StdEncoding.EncodeToString(sealed),
		Nonce:        base64.StdEncoding.EncodeToString(nonce[:]),
	}
	k.priv = append([]byte(nil), raw...)
	k.addr = addr
	return k.save()
}

func (k *Keystore) load(password []byte) error {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return fmt.Errorf("reading keystore: %w", err)
	}

	var storage storageFile
	if err := json.Unmarshal(data, &storage); err != nil {
		return fmt.Errorf("parsing keystore: %w", err)
	}
	if storage.Algorithm != storageAlgorithm {
		return fmt.Errorf("unsupported keystore algorithm %q", storage.Algorithm)
	}

	saltBytes, err := base64.StdEncoding.DecodeString(storage.KDF.Salt)
	if err != nil {
		return fmt.Errorf("decoding salt: %w", err)
	}
	var salt Salt
	copy(salt[:], saltBytes)

	key := deriveKey(password, salt, storage.KDF)
	defer SecureZero(key)

	sealed, err := base64.StdEncoding.DecodeString(storage.EncryptedKey)
	if err != nil {
		return fmt.Errorf("decoding encrypted key: %w", err)
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(storage.Nonce)
	if err != nil {
		return fmt.Errorf("decoding nonce: %w", err)
	}
	var nonce Nonce
	copy(nonce[:], nonceBytes)

	raw, err := open(sealed, key, nonce)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	priv, err := crypto.ToECDSA(raw)
	if err != nil {
		SecureZero(raw)
		return fmt.Errorf("corrupt key material: %w", err)
	}

	addr := crypto.PubkeyToAddress(priv.PublicKey)
	if !SecureCompare([]byte(addr.Hex()), []byte(storage.Address)) {
		SecureZero(raw)
		return fmt.Errorf("keystore address mismatch")
	}

	k.storage = &storage
	k.priv = raw
	k.addr = addr
	return nil
}

// save writes the keystore file atomically.
func (k *Keystore) save() error {
	k.storage.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(k.storage, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding keystore: %w", err)
	}

	tmp := k.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing keystore: %w", err)
	}
	if err := os.Rename(tmp, k.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing keystore: %w", err)
	}
	return nil
}

// Address returns the identity's address.
func (k *Keystore) Address() common.Address {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.addr
}

// Unlocked reports whether the signing key is present in memory.
func (k *Keystore) Unlocked() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.priv) > 0
}

// Lock zeros the in-memory key. The keystore can only be used again by
// reopening it with the password.
func (k *Keystore) Lock() {
	k.mu.Lock()
	defer k.mu.Unlock()
	SecureZero(k.priv)
	k.priv = nil
}

// SetApprover installs the hook consulted before every signature.
// Without one, signing requests are approved.
func (k *Keystore) SetApprover(fn Approver) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.approve = fn
}

// SignTx signs a transaction with the unlocked key. A declined approval
// maps to the estate signing-rejection kind so flows can show the
// friendlier message.
func (k *Keystore) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	k.mu.Lock()
	raw := append([]byte(nil), k.priv...)
	approve := k.approve
	k.mu.Unlock()
	defer SecureZero(raw)

	if len(raw) == 0 {
		return nil, estate.ErrNotConnected
	}
	if approve != nil && !approve(fmt.Sprintf("tx to %s", tx.To())) {
		return nil, estate.ErrUserRejectedSigning
	}

	priv, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt key material: %w", err)
	}
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), priv)
}

// Identity adapts the keystore to the estate connection capability:
// connected means the key is unlocked.
func (k *Keystore) Identity() estate.Identity {
	return identity{k}
}

type identity struct{ ks *Keystore }

func (i identity) Address() (string, bool) {
	if !i.ks.Unlocked() {
		return "", false
	}
	return i.ks.Address().Hex(), true
}
