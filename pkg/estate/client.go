package estate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// User-facing status messages. Wording is part of the UI contract.
const (
	msgConnectWallet    = "Please connect wallet first"
	msgSubsystemDown    = "Encryption system not ready"
	msgInitFailed       = "FHE initialization failed"
	msgLoadFailed       = "Failed to load properties"
	msgCreating         = "Creating property with FHE encryption..."
	msgAwaitingTx       = "Waiting for transaction confirmation..."
	msgCreated          = "Property tokenized successfully!"
	msgTxRejected       = "Transaction rejected"
	msgVerifying        = "Verifying price decryption..."
	msgDisclosed        = "Price decrypted successfully!"
	msgAlreadyVerified  = "Price already verified"
	msgDiscloseFailed   = "Decryption failed"
	msgAvailable        = "Contract is available!"
	msgAvailCheckFailed = "Availability check failed"
)

// Client orchestrates the creation and disclosure flows against the
// ledger, the encryption relayer, and the local identity. All flow-level
// errors are absorbed into transient status messages; callers receive an
// error value as a failure indicator, never a raw remote failure to
// re-raise at the user.
type Client struct {
	reader   LedgerReader
	writer   LedgerWriter
	enc      Encryptor
	ident    Identity
	contract string

	cache   *Cache
	status  *StatusController
	history *ActivityLog
	log     zerolog.Logger

	mu         sync.Mutex
	loaded     bool
	refreshing bool
	inflight   map[string]chan struct{}
}

// Config wires a Client.
type Config struct {
	Reader    LedgerReader
	Writer    LedgerWriter
	Encryptor Encryptor
	Identity  Identity
	// Contract is the destination contract identity that encryption
	// requests are scoped to.
	Contract string
	Logger   zerolog.Logger
	// Status is optional; a controller with default holds is created
	// when nil.
	Status *StatusController
}

// NewClient builds a client around the given capabilities.
func NewClient(cfg Config) *Client {
	status := cfg.Status
	if status == nil {
		status = NewStatusController()
	}
	return &Client{
		reader:   cfg.Reader,
		writer:   cfg.Writer,
		enc:      cfg.Encryptor,
		ident:    cfg.Identity,
		contract: cfg.Contract,
		cache:    NewCache(),
		status:   status,
		history:  NewActivityLog(),
		log:      cfg.Logger.With().Str("component", "estate").Logger(),
		inflight: make(map[string]chan struct{}),
	}
}

// Cache exposes the record collection for derived views.
func (c *Client) Cache() *Cache { return c.cache }

// Status exposes the transaction status slot.
func (c *Client) Status() *StatusController { return c.status }

// History exposes the activity log.
func (c *Client) History() *ActivityLog { return c.history }

// Loading reports whether the first reload has not completed yet.
func (c *Client) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loaded
}

// Refreshing reports whether a reload is currently running.
func (c *Client) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// InitSubsystem initializes the encryption subsystem after connect.
// Flows refuse to run until this has succeeded.
func (c *Client) InitSubsystem(ctx context.Context) error {
	if _, ok := c.ident.Address(); !ok {
		return ErrNotConnected
	}
	if c.enc.Ready() {
		return nil
	}
	if err := c.enc.Init(ctx); err != nil {
		c.log.Error().Err(err).Msg("encryption subsystem init failed")
		c.status.Error(msgInitFailed)
		return fmt.Errorf("%w: %w", ErrSubsystemUnavailable, err)
	}
	c.log.Info().Msg("encryption subsystem initialized")
	return nil
}

// Reload discards the cache and rebuilds it from the ledger. It is
// idempotent and safe to call repeatedly. Records whose individual fetch
// fails are logged and skipped; only a failure of the listing call itself
// leaves the cache untouched and raises an error status.
func (c *Client) Reload(ctx context.Context) error {
	if _, ok := c.ident.Address(); !ok {
		return ErrNotConnected
	}

	c.mu.Lock()
	c.refreshing = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.refreshing = false
		c.loaded = true
		c.mu.Unlock()
	}()

	records, err := c.fetchAll(ctx)
	if err != nil {
		c.status.Error(msgLoadFailed)
		return err
	}

	c.cache.Replace(records)
	c.log.Debug().Int("records", len(records)).Msg("cache reloaded")
	return nil
}

// fetchAll lists every asset id and fetches each record, skipping the
// ones that fail to load (best-effort aggregation, not all-or-nothing).
// Only a failure of the listing call itself is an error.
func (c *Client) fetchAll(ctx context.Context) ([]Property, error) {
	ids, err := c.reader.ListIDs(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("listing asset ids failed")
		return nil, fmt.Errorf("%w: list ids: %w", ErrRemoteCallFailed, err)
	}

	records := make([]Property, 0, len(ids))
	for _, id := range ids {
		p, err := c.reader.Get(ctx, id)
		if err != nil {
			c.log.Warn().Err(err).Str("asset", id).Msg("skipping unreadable record")
			continue
		}
		records = append(records, p)
	}
	return records, nil
}

// Create runs the creation flow: encrypt the price, submit the create
// transaction, await inclusion, then resynchronize. On failure the
// caller's draft stays intact for a retry; no partial record is left
// behind locally because the cache only changes via a full reload.
func (c *Client) Create(ctx context.Context, draft Draft) error {
	actor, ok := c.ident.Address()
	if !ok {
		c.status.Error(msgConnectWallet)
		return ErrNotConnected
	}
	if !c.enc.Ready() {
		c.status.Error(msgSubsystemDown)
		return ErrSubsystemUnavailable
	}

	id := NewPropertyID()
	release := c.acquire(id)
	defer release()

	c.status.Pending(msgCreating)

	price := ParsePrice(draft.Price)
	input, err := c.enc.Encrypt(ctx, c.contract, actor, price)
	if err != nil {
		return c.failCreate(id, "encrypt", err)
	}

	tx, err := c.writer.Create(ctx, CreateParams{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Ciphertext:  input.Ciphertext,
		Proof:       input.Proof,
		Area:        ParseCount(draft.Area),
		Rooms:       ParseCount(draft.Rooms),
	})
	if err != nil {
		return c.failCreate(id, "submit", err)
	}

	c.status.Pending(msgAwaitingTx)
	if err := tx.Await(ctx); err != nil {
		return c.failCreate(id, "confirm", err)
	}

	c.history.Record(ActionCreate, id, draft.Name, actor)
	c.status.Success(msgCreated)
	c.log.Info().Str("asset", id).Str("tx", tx.Hash()).Msg("property tokenized")

	c.reloadQuiet(ctx)
	return nil
}

// Disclose runs the decrypt-and-verify protocol for one asset and returns
// the clear price. ok is false when no value is returned: either the flow
// failed (err != nil) or another actor won the disclosure race (err ==
// nil) and the caller should re-read the reloaded record instead.
func (c *Client) Disclose(ctx context.Context, id string) (value uint64, ok bool, err error) {
	actor, connected := c.ident.Address()
	if !connected {
		c.status.Error(msgConnectWallet)
		return 0, false, ErrNotConnected
	}
	if !c.enc.Ready() {
		c.status.Error(msgSubsystemDown)
		return 0, false, ErrSubsystemUnavailable
	}

	// Coalesce duplicate concurrent disclosures of the same asset: wait
	// for the in-flight attempt, then run the protocol, whose first step
	// short-circuits if the winner already verified the value.
	release := c.acquire(id)
	defer release()

	p, err := c.reader.Get(ctx, id)
	if err != nil {
		c.log.Error().Err(err).Str("asset", id).Msg("reading record failed")
		c.status.Error(msgDiscloseFailed)
		return 0, false, fmt.Errorf("%w: get record: %w", ErrRemoteCallFailed, err)
	}

	// Idempotent short-circuit: disclosure is one-time and
	// order-independent, so a repeat request is success-without-work.
	if p.Verified {
		c.history.Record(ActionVerify, id, p.Name, actor)
		c.status.Success(msgAlreadyVerified)
		return p.DisclosedValue, true, nil
	}

	handle, err := c.reader.CiphertextHandle(ctx, id)
	if err != nil {
		c.log.Error().Err(err).Str("asset", id).Msg("fetching ciphertext handle failed")
		c.status.Error(msgDiscloseFailed)
		return 0, false, fmt.Errorf("%w: ciphertext handle: %w", ErrRemoteCallFailed, err)
	}

	c.status.Pending(msgVerifying)

	clear, err := c.enc.VerifyDecryption(ctx, []string{handle}, c.contract,
		func(clearValues, proof []byte) (PendingTx, error) {
			return c.writer.SubmitVerification(ctx, id, clearValues, proof)
		})
	if err != nil {
		if errors.Is(err, ErrAlreadyDisclosed) {
			// Lost the race between the verified check and the
			// verification transaction. The end state is the one we
			// wanted; absorb the conflict as success.
			c.log.Info().Str("asset", id).Msg("disclosure raced, already verified on-chain")
			c.status.Success(msgAlreadyVerified)
			c.reloadQuiet(ctx)
			return 0, false, nil
		}
		c.log.Error().Err(err).Str("asset", id).Msg("disclosure failed")
		c.status.Error(msgDiscloseFailed)
		return 0, false, err
	}

	v, found := clear[handle]
	if !found {
		c.log.Error().Str("asset", id).Str("handle", handle).Msg("relayer result missing handle")
		c.status.Error(msgDiscloseFailed)
		return 0, false, fmt.Errorf("%w: clear value missing for handle", ErrRemoteCallFailed)
	}

	c.reloadQuiet(ctx)
	c.history.Record(ActionVerify, id, p.Name, actor)
	c.status.Success(msgDisclosed)
	c.log.Info().Str("asset", id).Msg("price disclosed")
	return v, true, nil
}

// CheckAvailability pings the contract and reports the result as a
// transient status.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	up, err := c.reader.Available(ctx)
	if err != nil || !up {
		if err != nil {
			c.log.Warn().Err(err).Msg("availability check failed")
		}
		c.status.Error(msgAvailCheckFailed)
		return false
	}
	c.status.Success(msgAvailable)
	return true
}

func (c *Client) failCreate(id, step string, err error) error {
	if errors.Is(err, ErrUserRejectedSigning) {
		c.log.Info().Str("asset", id).Msg("signing rejected by user")
		c.status.Error(msgTxRejected)
		return err
	}
	c.log.Error().Err(err).Str("asset", id).Str("step", step).Msg("creation failed")
	c.status.Error("Creation failed: " + err.Error())
	return err
}

// reloadQuiet resynchronizes after a mutating flow. A reload failure here
// must not clobber the flow's success status; the cache simply stays
// stale until the next reload.
func (c *Client) reloadQuiet(ctx context.Context) {
	records, err := c.fetchAll(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("post-flow reload failed")
		return
	}
	c.cache.Replace(records)
}

// acquire blocks until this client has no other flow in flight for id,
// then claims the slot. The returned func releases it.
func (c *Client) acquire(id string) func() {
	for {
		c.mu.Lock()
		ch, busy := c.inflight[id]
		if !busy {
			done := make(chan struct{})
			c.inflight[id] = done
			c.mu.Unlock()
			return func() {
				c.mu.Lock()
				delete(c.inflight, id)
				c.mu.Unlock()
				close(done)
			}
		}
		c.mu.Unlock()
		<-ch
	}
}
