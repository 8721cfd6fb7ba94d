package keystore_test

import (
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
	"github.com/yayikaidbushinen/RealEstateCipher/pkg/keystore"
)

func testTx() *types.Transaction {
	return types.NewTransaction(0, common.Address{0x01}, big.NewInt(0), 21000, big.NewInt(1), nil)
}

// TestOpenCreatesAndReloads round-trips the keystore file with the same
// password
func TestOpenCreatesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	password := []byte("hunter2")

	ks, err := keystore.Open(path, password)
	if err != nil {
		t.Fatalf("Open (create): %v", err)
	}
	addr := ks.Address()
	if !ks.Unlocked() {
		t.Fatal("fresh keystore not unlocked")
	}

	reopened, err := keystore.Open(path, password)
	if err != nil {
		t.Fatalf("Open (reload): %v", err)
	}
	if reopened.Address() != addr {
		t.Errorf("reloaded address %s, want %s", reopened.Address(), addr)
	}
}

// TestOpenWrongPassword refuses to unlock
func TestOpenWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	if _, err := keystore.Open(path, []byte("right")); err != nil {
		t.Fatalf("Open (create): %v", err)
	}
	if _, err := keystore.Open(path, []byte("wrong")); err == nil {
		t.Fatal("Open succeeded with the wrong password")
	}
}

// TestSignTx signs with the unlocked key
func TestSignTx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	ks, err := keystore.Open(path, []byte("pw"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	chainID := big.NewInt(31337)
	signed, err := ks.SignTx(testTx(), chainID)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatalf("recovering sender: %v", err)
	}
	if sender != ks.Address() {
		t.Errorf("recovered sender %s, want %s", sender, ks.Address())
	}
}

// TestSignTxDeclinedApproval maps a rejected approval onto the signing
// rejection sentinel
func TestSignTxDeclinedApproval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	ks, err := keystore.Open(path, []byte("pw"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ks.SetApprover(func(summary string) bool { return false })

	_, err = ks.SignTx(testTx(), big.NewInt(1))
	if !errors.Is(err, estate.ErrUserRejectedSigning) {
		t.Fatalf("SignTx error = %v, want ErrUserRejectedSigning", err)
	}
}

// TestLock disconnects the identity and blocks signing
func TestLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.json")
	ks, err := keystore.Open(path, []byte("pw"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ident := ks.Identity()
	if _, ok := ident.Address(); !ok {
		t.Fatal("identity not connected while unlocked")
	}

	ks.Lock()
	if ks.Unlocked() {
		t.Fatal("keystore still unlocked after Lock")
	}
	if _, ok := ident.Address(); ok {
		t.Fatal("identity still connected after Lock")
	}
	if _, err := ks.SignTx(testTx(), big.NewInt(1)); !errors.Is(err, estate.ErrNotConnected) {
		t.Fatalf("SignTx after Lock = %v, want ErrNotConnected", err)
	}
}
