// Package fhevm is the HTTP client for the FHE relayer: the cooperating
// off-chain service that encrypts clear values into ciphertext handles
// and decrypts handles back into attested clear values.
package fhevm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// Gateway implements estate.Encryptor over the relayer's REST API.
// It must be initialized once after wallet connect before any flow may
// use it; until then Ready reports false and the estate client refuses
// to run encryption-dependent flows.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu        sync.RWMutex
	publicKey string
}

// New creates a relayer client. baseURL points at the relayer root,
// without a trailing slash.
func New(baseURL string, logger zerolog.Logger) *Gateway {
	return &Gateway{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logger.With().Str("component", "fhevm").Logger(),
	}
}

type keysResponse struct {
	PublicKey string `json:"public_key"`
}

// Init fetches the relayer's public key material, completing the
// one-time subsystem initialization. Calling it again once initialized
// is a no-op.
func (g *Gateway) Init(ctx context.Context) error {
	if g.Ready() {
		return nil
	}

	var keys keysResponse
	if err := g.getJSON(ctx, "/v1/keys", &keys); err != nil {
		return fmt.Errorf("%w: fetching relayer keys: %w", estate.ErrSubsystemUnavailable, err)
	}
	if keys.PublicKey == "" {
		return fmt.Errorf("%w: relayer returned no public key", estate.ErrSubsystemUnavailable)
	}

	g.mu.Lock()
	g.publicKey = keys.PublicKey
	g.mu.Unlock()

	g.log.Info().Msg("relayer keys loaded")
	return nil
}

// Ready reports whether Init has completed.
func (g *Gateway) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.publicKey != ""
}

type encryptRequest struct {
	ContractAddress string `json:"contract_address"`
	UserAddress     string `json:"user_address"`
	Value           uint64 `json:"value"`
}

type encryptResponse struct {
	Handle string `json:"handle"`
	Proof  string `json:"input_proof"`
}

// Encrypt asks the relayer to encrypt value under the contract/user
// binding and returns the ciphertext handle plus attestation proof.
func (g *Gateway) Encrypt(ctx context.Context, contract, actor string, value uint64) (estate.EncryptedInput, error) {
	if !g.Ready() {
		return estate.EncryptedInput{}, estate.ErrSubsystemUnavailable
	}

	var resp encryptResponse
	req := encryptRequest{ContractAddress: contract, UserAddress: actor, Value: value}
	if err := g.postJSON(ctx, "/v1/encrypt", req, &resp); err != nil {
		return estate.EncryptedInput{}, fmt.Errorf("%w: encrypt: %w", estate.ErrRemoteCallFailed, err)
	}

	ciphertext := decodeHex(resp.Handle)
	proof := decodeHex(resp.Proof)
	if len(ciphertext) == 0 || len(proof) == 0 {
		return estate.EncryptedInput{}, fmt.Errorf("%w: relayer returned empty ciphertext or proof", estate.ErrRemoteCallFailed)
	}

	g.log.Debug().Str("contract", contract).Msg("value encrypted")
	return estate.EncryptedInput{Ciphertext: ciphertext, Proof: proof}, nil
}

type decryptRequest struct {
	Handles         []string `json:"handles"`
	ContractAddress string   `json:"contract_address"`
}

type decryptResponse struct {
	// ClearValues maps each requested handle to its decimal clear value.
	ClearValues map[string]string `json:"clear_values"`
	// Payload is the ABI-encoded clear values the contract expects.
	Payload string `json:"abi_encoded_values"`
	Proof   string `json:"decryption_proof"`
}

// VerifyDecryption decrypts the given handles off-chain, then invokes
// onReady to submit the clear values plus proof to the ledger and awaits
// that transaction. The whole exchange is one logical unit: the caller
// gets the clear values only after the on-chain verification confirmed.
func (g *Gateway) VerifyDecryption(ctx context.Context, handles []string, contract string, onReady estate.VerificationSubmitter) (map[string]uint64, error) {
	if !g.Ready() {
		return nil, estate.ErrSubsystemUnavailable
	}

	var resp decryptResponse
	req := decryptRequest{Handles: handles, ContractAddress: contract}
	if err := g.postJSON(ctx, "/v1/public-decrypt", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: decrypt: %w", estate.ErrRemoteCallFailed, err)
	}

	clear := make(map[string]uint64, len(resp.ClearValues))
	for handle, raw := range resp.ClearValues {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: relayer clear value %q for %s: %w", estate.ErrRemoteCallFailed, raw, handle, err)
		}
		clear[handle] = v
	}

	tx, err := onReady(decodeHex(resp.Payload), decodeHex(resp.Proof))
	if err != nil {
		return nil, err
	}
	if err := tx.Await(ctx); err != nil {
		return nil, err
	}

	g.log.Debug().Int("handles", len(handles)).Str("tx", tx.Hash()).Msg("decryption verified on-chain")
	return clear, nil
}

func (g *Gateway) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	return g.do(req, out)
}

func (g *Gateway) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out any) error {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relayer %s: %s: %s", req.URL.Path, resp.Status, bytes.TrimSpace(snippet))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
