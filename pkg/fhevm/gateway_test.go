package fhevm_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
	"github.com/yayikaidbushinen/RealEstateCipher/pkg/fhevm"
)

type fakeTx struct{ err error }

func (t fakeTx) Hash() string                    { return "0xtx" }
func (t fakeTx) Await(ctx context.Context) error { return t.err }

// newRelayer spins up a stub relayer serving the key, encrypt and
// decrypt endpoints.
func newRelayer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/keys", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"public_key": "pk-material"})
	})

	mux.HandleFunc("POST /v1/encrypt", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ContractAddress string `json:"contract_address"`
			UserAddress     string `json:"user_address"`
			Value           uint64 `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.ContractAddress == "" || req.UserAddress == "" {
			http.Error(w, "missing binding", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"handle":      "0xdeadbeef",
			"input_proof": "0x0102",
		})
	})

	mux.HandleFunc("POST /v1/public-decrypt", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Handles []string `json:"handles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		clear := make(map[string]string, len(req.Handles))
		for _, h := range req.Handles {
			clear[h] = "750000"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"clear_values":       clear,
			"abi_encoded_values": "0xaabb",
			"decryption_proof":   "0xccdd",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestInitAndReady checks the one-time initialization gate
func TestInitAndReady(t *testing.T) {
	srv := newRelayer(t)
	g := fhevm.New(srv.URL, zerolog.Nop())

	if g.Ready() {
		t.Fatal("gateway ready before Init")
	}
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !g.Ready() {
		t.Fatal("gateway not ready after Init")
	}
	// Idempotent second Init.
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("second Init: %v", err)
	}
}

// TestInitFailure wraps relayer failures in the subsystem error kind
func TestInitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := fhevm.New(srv.URL, zerolog.Nop())
	err := g.Init(context.Background())
	if !errors.Is(err, estate.ErrSubsystemUnavailable) {
		t.Fatalf("Init error = %v, want ErrSubsystemUnavailable", err)
	}
	if g.Ready() {
		t.Fatal("gateway ready after failed Init")
	}
}

// TestEncrypt round-trips a value through the stub relayer
func TestEncrypt(t *testing.T) {
	srv := newRelayer(t)
	g := fhevm.New(srv.URL, zerolog.Nop())
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	input, err := g.Encrypt(context.Background(), "0xcontract", "0xactor", 750000)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(input.Ciphertext, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("Ciphertext = %x, want deadbeef", input.Ciphertext)
	}
	if !bytes.Equal(input.Proof, []byte{0x01, 0x02}) {
		t.Errorf("Proof = %x, want 0102", input.Proof)
	}
}

// TestEncryptRequiresInit refuses before initialization
func TestEncryptRequiresInit(t *testing.T) {
	g := fhevm.New("http://127.0.0.1:0", zerolog.Nop())
	_, err := g.Encrypt(context.Background(), "0xcontract", "0xactor", 1)
	if !errors.Is(err, estate.ErrSubsystemUnavailable) {
		t.Fatalf("Encrypt error = %v, want ErrSubsystemUnavailable", err)
	}
}

// TestVerifyDecryption checks the decrypt-submit-await unit and the
// payload handed to the submitter
func TestVerifyDecryption(t *testing.T) {
	srv := newRelayer(t)
	g := fhevm.New(srv.URL, zerolog.Nop())
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var gotPayload, gotProof []byte
	clear, err := g.VerifyDecryption(context.Background(), []string{"0xhandle"}, "0xcontract",
		func(clearValues, proof []byte) (estate.PendingTx, error) {
			gotPayload = clearValues
			gotProof = proof
			return fakeTx{}, nil
		})
	if err != nil {
		t.Fatalf("VerifyDecryption: %v", err)
	}
	if clear["0xhandle"] != 750000 {
		t.Errorf("clear[0xhandle] = %d, want 750000", clear["0xhandle"])
	}
	if !bytes.Equal(gotPayload, []byte{0xaa, 0xbb}) {
		t.Errorf("submitted payload = %x, want aabb", gotPayload)
	}
	if !bytes.Equal(gotProof, []byte{0xcc, 0xdd}) {
		t.Errorf("submitted proof = %x, want ccdd", gotProof)
	}
}

// TestVerifyDecryptionSubmitFailure propagates the submitter's error
// unchanged so the caller can classify it
func TestVerifyDecryptionSubmitFailure(t *testing.T) {
	srv := newRelayer(t)
	g := fhevm.New(srv.URL, zerolog.Nop())
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	_, err := g.VerifyDecryption(context.Background(), []string{"0xhandle"}, "0xcontract",
		func(clearValues, proof []byte) (estate.PendingTx, error) {
			return nil, estate.ErrAlreadyDisclosed
		})
	if !errors.Is(err, estate.ErrAlreadyDisclosed) {
		t.Fatalf("error = %v, want ErrAlreadyDisclosed", err)
	}
}

// TestVerifyDecryptionAwaitFailure surfaces a reverted verification tx
func TestVerifyDecryptionAwaitFailure(t *testing.T) {
	srv := newRelayer(t)
	g := fhevm.New(srv.URL, zerolog.Nop())
	if err := g.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := errors.New("reverted")
	_, err := g.VerifyDecryption(context.Background(), []string{"0xhandle"}, "0xcontract",
		func(clearValues, proof []byte) (estate.PendingTx, error) {
			return fakeTx{err: want}, nil
		})
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
