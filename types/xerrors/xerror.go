package xerrors

import (
	"errors"
	"fmt"
	"strings"

	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeOrdinary
	ErrCodeInitChain
	ErrCodeCheckTx
	ErrCodeBeginBlock
	ErrCodeDeliverTx
	ErrCodeEndBlock
	ErrCodeCommit
	ErrCodeNotFoundAccount
	ErrCodeInvalidTrx
)

// taxpool errors
const (
	ErrCodeInvalidWeights uint32 = 100 + iota
	ErrCodeUnauthorized
	ErrCodeNotBeneficiary
	ErrCodeInsufficientBalance
	ErrCodeUninitialized
	ErrCodeOracle
	ErrCodeStore
	ErrCodeInternal
	ErrCodeFrozenPool
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryPath
	ErrCodeInvalidQueryParams
	ErrCodeNotFoundResult
	ErrLast
)

var (
	ErrCommon     = New(ErrCodeOrdinary, "taxpool error")
	ErrOverFlow   = New(ErrCodeOrdinary, "overflow")
	ErrInitChain  = New(ErrCodeInitChain, "InitChain failed")
	ErrCheckTx    = New(ErrCodeCheckTx, "CheckTx failed")
	ErrBeginBlock = New(ErrCodeBeginBlock, "BeginBlock failed")
	ErrDeliverTx  = New(ErrCodeDeliverTx, "DeliverTx failed")
	ErrEndBlock   = New(ErrCodeEndBlock, "EndBlock failed")
	ErrCommit     = New(ErrCodeCommit, "Commit failed")
	ErrQuery      = New(ErrCodeQuery, "query failed")

	ErrNotFoundAccount         = New(ErrCodeNotFoundAccount, "not found account")
	ErrInvalidTrx              = New(ErrCodeInvalidTrx, "invalid transaction")
	ErrInvalidAddress          = ErrInvalidTrx.Wrap(NewOrdinary("invalid address"))
	ErrInvalidNonce            = ErrInvalidTrx.Wrap(NewOrdinary("invalid nonce"))
	ErrInvalidAmount           = ErrInvalidTrx.Wrap(NewOrdinary("invalid amount"))
	ErrInsufficientFund        = ErrInvalidTrx.Wrap(NewOrdinary("insufficient fund"))
	ErrInvalidTrxType          = ErrInvalidTrx.Wrap(NewOrdinary("wrong transaction type"))
	ErrInvalidTrxPayloadType   = ErrInvalidTrx.Wrap(NewOrdinary("wrong transaction payload type"))
	ErrInvalidTrxPayloadParams = ErrInvalidTrx.Wrap(NewOrdinary("invalid params of transaction payload"))
	ErrInvalidTrxSig           = ErrInvalidTrx.Wrap(NewOrdinary("invalid signature"))

	ErrInvalidWeights      = New(ErrCodeInvalidWeights, "invalid weights")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "unauthorized")
	ErrNotBeneficiary      = New(ErrCodeNotBeneficiary, "not a beneficiary")
	ErrInsufficientBalance = New(ErrCodeInsufficientBalance, "insufficient balance")
	ErrUninitialized       = New(ErrCodeUninitialized, "tax pool is not initialized")
	ErrOracle              = New(ErrCodeOracle, "balance oracle error")
	ErrStore               = New(ErrCodeStore, "store error")
	ErrInternal            = New(ErrCodeInternal, "internal consistency error")
	ErrFrozenPool          = New(ErrCodeFrozenPool, "tax pool is frozen")

	ErrInvalidQueryPath   = New(ErrCodeInvalidQueryPath, "invalid query path")
	ErrInvalidQueryParams = New(ErrCodeInvalidQueryParams, "invalid query parameters")

	ErrNotFoundResult = New(ErrCodeNotFoundResult, "not found result")

	ErrUnknownTrxType        = NewOrdinary("unknown transaction type")
	ErrUnknownTrxPayloadType = NewOrdinary("unknown transaction payload type")
)

// XError carries an abci response code along a chain of causes.
// It works with errors.Is and errors.As: a chain matches a target
// that has the same code and message.
type XError interface {
	error
	Code() uint32
	Cause() error
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{code: code, msg: msg}
}

func NewOrdinary(msg string) XError {
	return New(ErrCodeOrdinary, msg)
}

// From returns err as an XError. A plain error becomes the cause of an ordinary one.
func From(err error) XError {
	if err == nil {
		return nil
	}
	var xerr XError
	if errors.As(err, &xerr) {
		return xerr
	}
	return &xerror{code: ErrCodeOrdinary, msg: err.Error(), cause: err}
}

func Wrap(err error, msg string) XError {
	return &xerror{code: ErrCodeOrdinary, msg: msg, cause: err}
}

// InsufficientBalance reports a withdrawal request larger than what the caller can claim.
// The returned error keeps ErrCodeInsufficientBalance as its code.
func InsufficientBalance(available, requested fmt.Stringer) XError {
	return ErrInsufficientBalance.Wrapf("available: %s, requested: %s", available, requested)
}

func (xerr *xerror) Code() uint32 { return xerr.code }
func (xerr *xerror) Msg() string   { return xerr.msg }
func (xerr *xerror) Cause() error  { return xerr.cause }
func (xerr *xerror) Unwrap() error { return xerr.cause }

func (xerr *xerror) Error() string {
	var sb strings.Builder
	sb.WriteString(xerr.msg)
	last := xerr.msg
	for cause := xerr.cause; cause != nil; {
		if c, ok := cause.(*xerror); ok {
			sb.WriteString("\n\t")
			sb.WriteString(c.msg)
			last, cause = c.msg, c.cause
			continue
		}
		// the plain cause of From has the same message.
		if cause.Error() != last {
			sb.WriteString("\n\t")
			sb.WriteString(cause.Error())
		}
		break
	}
	return sb.String()
}

// Wrap appends err at the end of the chain of xerror causes.
func (xerr *xerror) Wrap(err error) XError {
	ret := &xerror{code: xerr.code, msg: xerr.msg, cause: err}
	if inner, ok := xerr.cause.(*xerror); ok {
		ret.cause = inner.Wrap(err)
	} else if xerr.cause != nil {
		// a plain cause ends the chain: it is kept as a message.
		ret.cause = &xerror{code: ErrCodeOrdinary, msg: xerr.cause.Error(), cause: err}
	}
	return ret
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(NewOrdinary(fmt.Sprintf(format, args...)))
}

// Is makes errors.Is match on code and message.
func (xerr *xerror) Is(target error) bool {
	other, ok := target.(*xerror)
	return ok && xerr.code == other.code && xerr.msg == other.msg
}

func (xerr *xerror) Contains(other XError) bool {
	return errors.Is(xerr, other)
}

// Equal compares only the codes.
func (xerr *xerror) Equal(other XError) bool {
	return other != nil && xerr.code == other.Code()
}
