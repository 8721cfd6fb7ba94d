package estate

import "context"

// LedgerReader is the read capability of the ledger contract.
type LedgerReader interface {
	// ListIDs returns every asset id known to the contract.
	ListIDs(ctx context.Context) ([]string, error)
	// Get reads the full record for one asset.
	Get(ctx context.Context, id string) (Property, error)
	// CiphertextHandle returns the opaque handle of the asset's
	// encrypted value field.
	CiphertextHandle(ctx context.Context, id string) (string, error)
	// Available reports whether the contract answers at all.
	Available(ctx context.Context) (bool, error)
}

// PendingTx is a submitted ledger transaction awaiting inclusion.
type PendingTx interface {
	Hash() string
	// Await blocks until the transaction is included, returning an
	// error when it reverted or never landed.
	Await(ctx context.Context) error
}

// CreateParams carries everything a create transaction needs.
type CreateParams struct {
	ID          string
	Name        string
	Description string
	Ciphertext  []byte
	Proof       []byte
	Area        uint64
	Rooms       uint64
}

// LedgerWriter is the mutating capability of the ledger contract.
// Implementations classify failures into the estate error kinds,
// in particular ErrUserRejectedSigning and ErrAlreadyDisclosed.
type LedgerWriter interface {
	Create(ctx context.Context, p CreateParams) (PendingTx, error)
	SubmitVerification(ctx context.Context, id string, clearValues, proof []byte) (PendingTx, error)
}

// VerificationSubmitter submits the relayer-produced clear values and
// proof to the ledger's verification entry point.
type VerificationSubmitter func(clearValues, proof []byte) (PendingTx, error)

// Encryptor is the encryption/decryption capability of the relayer.
type Encryptor interface {
	// Init performs the one-time subsystem initialization. Safe to call
	// again once initialized.
	Init(ctx context.Context) error
	// Ready reports whether Init has completed.
	Ready() bool
	// Encrypt produces a ciphertext and proof for value, bound to the
	// destination contract and the acting identity. May suspend for a
	// remote round trip.
	Encrypt(ctx context.Context, contract, actor string, value uint64) (EncryptedInput, error)
	// VerifyDecryption decrypts the given handles off-chain and invokes
	// onReady to submit the produced clear values plus proof on-chain.
	// The off-chain computation and the resulting transaction are
	// awaited as one unit. Returns the clear values keyed by handle.
	VerifyDecryption(ctx context.Context, handles []string, contract string, onReady VerificationSubmitter) (map[string]uint64, error)
}

// Identity exposes the current actor and the connected signal.
type Identity interface {
	// Address returns the actor identity, or ok=false when no wallet
	// is connected.
	Address() (addr string, ok bool)
}
