package estate

import "errors"

// Error kinds raised by the flows. Adapters classify remote failures into
// these sentinels at their boundary so the flows can branch with
// errors.Is instead of inspecting message text.
var (
	// ErrNotConnected means no actor identity is present. The operation
	// is refused before any side effect.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrSubsystemUnavailable means the encryption subsystem has not
	// finished initializing.
	ErrSubsystemUnavailable = errors.New("encryption subsystem not initialized")

	// ErrRemoteCallFailed wraps a ledger or relayer call that was
	// rejected or reverted.
	ErrRemoteCallFailed = errors.New("remote call failed")

	// ErrUserRejectedSigning means the actor declined a signing prompt.
	// Distinguished so the UI can show a friendlier message.
	ErrUserRejectedSigning = errors.New("user rejected signing")

	// ErrAlreadyDisclosed is the expected outcome of losing the
	// disclosure race: another actor verified the value first. The
	// disclosure flow remaps it to success.
	ErrAlreadyDisclosed = errors.New("value already disclosed")
)
