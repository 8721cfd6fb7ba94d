// Package ledger adapts the RealEstateCipher contract to the estate
// capability interfaces using an Ethereum JSON-RPC endpoint.
package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// contractABI covers the calls the client makes. The encrypted value is a
// 32-byte ciphertext handle; proofs are opaque relayer blobs.
const contractABI = `[
	{"type":"function","name":"getAllPropertyIds","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string[]"}]},
	{"type":"function","name":"getPropertyData","stateMutability":"view","inputs":[{"name":"propertyId","type":"string"}],"outputs":[
		{"name":"name","type":"string"},
		{"name":"description","type":"string"},
		{"name":"publicArea","type":"uint256"},
		{"name":"publicRooms","type":"uint256"},
		{"name":"creator","type":"address"},
		{"name":"createdAt","type":"uint256"},
		{"name":"isVerified","type":"bool"},
		{"name":"decryptedValue","type":"uint256"},
		{"name":"encryptedValue","type":"bytes32"}]},
	{"type":"function","name":"getEncryptedValue","stateMutability":"view","inputs":[{"name":"propertyId","type":"string"}],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"isAvailable","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"createPropertyData","stateMutability":"nonpayable","inputs":[
		{"name":"propertyId","type":"string"},
		{"name":"name","type":"string"},
		{"name":"encryptedValue","type":"bytes32"},
		{"name":"inputProof","type":"bytes"},
		{"name":"publicArea","type":"uint256"},
		{"name":"publicRooms","type":"uint256"},
		{"name":"description","type":"string"}],"outputs":[]},
	{"type":"function","name":"verifyDecryption","stateMutability":"nonpayable","inputs":[
		{"name":"propertyId","type":"string"},
		{"name":"clearValues","type":"bytes"},
		{"name":"decryptionProof","type":"bytes"}],"outputs":[]}
]`

// Signer signs transactions for the connected identity.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Contract implements estate.LedgerReader and estate.LedgerWriter over a
// deployed RealEstateCipher contract.
type Contract struct {
	client  *ethclient.Client
	abi     abi.ABI
	addr    common.Address
	signer  Signer
	chainID *big.Int
	log     zerolog.Logger
}

// New binds the contract at addr through the given RPC client.
func New(client *ethclient.Client, addr common.Address, signer Signer, chainID *big.Int, logger zerolog.Logger) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("parsing contract ABI: %w", err)
	}
	return &Contract{
		client:  client,
		abi:     parsed,
		addr:    addr,
		signer:  signer,
		chainID: chainID,
		log:     logger.With().Str("component", "ledger").Logger(),
	}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address { return c.addr }

// ListIDs returns every property id known to the contract.
func (c *Contract) ListIDs(ctx context.Context) ([]string, error) {
	out, err := c.call(ctx, "getAllPropertyIds")
	if err != nil {
		return nil, err
	}
	ids, ok := out[0].([]string)
	if !ok {
		return nil, fmt.Errorf("unexpected getAllPropertyIds result %T", out[0])
	}
	return ids, nil
}

// Get reads the full on-chain record for one property.
func (c *Contract) Get(ctx context.Context, id string) (estate.Property, error) {
	out, err := c.call(ctx, "getPropertyData", id)
	if err != nil {
		return estate.Property{}, err
	}
	if len(out) != 9 {
		return estate.Property{}, fmt.Errorf("unexpected getPropertyData arity %d", len(out))
	}

	handle, _ := out[8].([32]byte)
	p := estate.Property{
		ID:          id,
		Name:        out[0].(string),
		Description: out[1].(string),
		PublicArea:  bigToUint64(out[2]),
		PublicRooms: bigToUint64(out[3]),
		Creator:     out[4].(common.Address).Hex(),
		CreatedAt:   time.Unix(int64(bigToUint64(out[5])), 0),
		Verified:    out[6].(bool),
		ValueHandle: common.BytesToHash(handle[:]).Hex(),
	}
	if p.Verified {
		p.DisclosedValue = bigToUint64(out[7])
	}
	return p, nil
}

// CiphertextHandle returns the handle of the property's encrypted value.
func (c *Contract) CiphertextHandle(ctx context.Context, id string) (string, error) {
	out, err := c.call(ctx, "getEncryptedValue", id)
	if err != nil {
		return "", err
	}
	handle, ok := out[0].([32]byte)
	if !ok {
		return "", fmt.Errorf("unexpected getEncryptedValue result %T", out[0])
	}
	return common.BytesToHash(handle[:]).Hex(), nil
}

// Available reports whether the contract answers its availability probe.
func (c *Contract) Available(ctx context.Context) (bool, error) {
	out, err := c.call(ctx, "isAvailable")
	if err != nil {
		return false, err
	}
	up, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isAvailable result %T", out[0])
	}
	return up, nil
}

// Create submits the create transaction for a new property.
func (c *Contract) Create(ctx context.Context, p estate.CreateParams) (estate.PendingTx, error) {
	var handle [32]byte
	copy(handle[:], p.Ciphertext)
	return c.transact(ctx, "createPropertyData",
		p.ID, p.Name, handle, p.Proof,
		new(big.Int).SetUint64(p.Area), new(big.Int).SetUint64(p.Rooms),
		p.Description)
}

// SubmitVerification submits the relayer-produced clear values and proof
// to the contract's verification entry point.
func (c *Contract) SubmitVerification(ctx context.Context, id string, clearValues, proof []byte) (estate.PendingTx, error) {
	return c.transact(ctx, "verifyDecryption", id, clearValues, proof)
}

func (c *Contract) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}
	raw, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.addr, Data: data}, nil)
	if err != nil {
		return nil, classify(fmt.Errorf("calling %s: %w", method, err))
	}
	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return out, nil
}

func (c *Contract) transact(ctx context.Context, method string, args ...any) (estate.PendingTx, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	from := c.signer.Address()
	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, classify(fmt.Errorf("fetching nonce: %w", err))
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, classify(fmt.Errorf("suggesting gas price: %w", err))
	}
	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from, To: &c.addr, Data: data, GasPrice: gasPrice,
	})
	if err != nil {
		// A revert surfaces here before anything is signed; this is
		// where the already-verified race is usually detected.
		return nil, classify(fmt.Errorf("estimating gas for %s: %w", method, err))
	}

	tx := types.NewTransaction(nonce, c.addr, new(big.Int), gas, gasPrice, data)
	signed, err := c.signer.SignTx(tx, c.chainID)
	if err != nil {
		return nil, classify(fmt.Errorf("signing %s: %w", method, err))
	}
	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return nil, classify(fmt.Errorf("sending %s: %w", method, err))
	}

	c.log.Debug().Str("method", method).Str("tx", signed.Hash().Hex()).Msg("transaction submitted")
	return &pendingTx{client: c.client, tx: signed}, nil
}

// pendingTx awaits on-chain inclusion of a submitted transaction.
type pendingTx struct {
	client *ethclient.Client
	tx     *types.Transaction
}

func (p *pendingTx) Hash() string { return p.tx.Hash().Hex() }

func (p *pendingTx) Await(ctx context.Context) error {
	receipt, err := bind.WaitMined(ctx, p.client, p.tx)
	if err != nil {
		return classify(fmt.Errorf("awaiting %s: %w", p.tx.Hash().Hex(), err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: transaction %s reverted", estate.ErrRemoteCallFailed, p.tx.Hash().Hex())
	}
	return nil
}

func bigToUint64(v any) uint64 {
	b, ok := v.(*big.Int)
	if !ok || !b.IsUint64() {
		return 0
	}
	return b.Uint64()
}
