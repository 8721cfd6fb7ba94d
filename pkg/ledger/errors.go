package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/yayikaidbushinen/RealEstateCipher/pkg/estate"
)

// alreadyVerifiedReason is the revert reason the contract emits when a
// verification lands for a value that was already disclosed. Classifying
// it here, at the collaborator boundary, keeps the flows free of message
// inspection.
const alreadyVerifiedReason = "Data already verified"

// dataError is the subset of go-ethereum's rpc.DataError needed to pull
// ABI-encoded revert data out of an RPC failure.
type dataError interface {
	Error() string
	ErrorData() any
}

// classify maps an RPC failure onto the estate error kinds. Signing
// rejections pass through untouched because the signer already tags them.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, estate.ErrUserRejectedSigning) {
		return err
	}
	if reason := revertReason(err); reason == alreadyVerifiedReason {
		return errors.Join(estate.ErrAlreadyDisclosed, err)
	}
	if errors.Is(err, estate.ErrRemoteCallFailed) {
		return err
	}
	return errors.Join(estate.ErrRemoteCallFailed, err)
}

// revertReason extracts the Error(string) revert reason from an RPC
// error, or "" when there is none.
func revertReason(err error) string {
	var de dataError
	if !errors.As(err, &de) {
		return ""
	}
	hexData, ok := de.ErrorData().(string)
	if !ok {
		return ""
	}
	reason, uerr := abi.UnpackRevert(common.FromHex(hexData))
	if uerr != nil {
		return ""
	}
	return reason
}
