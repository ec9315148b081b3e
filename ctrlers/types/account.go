package types

import (
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/holiman/uint256"
	"sync"
)

type Account struct {
	Address types.Address `json:"address"`
	Denom   string        `json:"denom"`
	Nonce   int64         `json:"nonce"`
	Balance *uint256.Int  `json:"balance"`

	mtx sync.RWMutex
}

func NewAccount(addr types.Address, denom string) *Account {
	return &Account{
		Address: addr,
		Denom:   denom,
		Nonce:   0,
		Balance: uint256.NewInt(0),
	}
}

func (acct *Account) Encode() ([]byte, xerrors.XError) {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	bz, err := jsonx.Marshal(acct)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (acct *Account) Decode(bz []byte) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if err := jsonx.Unmarshal(bz, acct); err != nil {
		return xerrors.From(err)
	}
	if acct.Balance == nil {
		acct.Balance = uint256.NewInt(0)
	}
	return nil
}

func (acct *Account) GetNonce() int64 {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Nonce
}

func (acct *Account) AddNonce() {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	acct.Nonce++
}

func (acct *Account) CheckNonce(n int64) xerrors.XError {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if acct.Nonce != n {
		return xerrors.ErrInvalidNonce.Wrapf("expected: %v, actual: %v, address: %v", acct.Nonce, n, acct.Address)
	}
	return nil
}

func (acct *Account) GetBalance() *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return new(uint256.Int).Set(acct.Balance)
}

func (acct *Account) AddBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	sum, overflow := new(uint256.Int).AddOverflow(acct.Balance, amt)
	if overflow {
		return xerrors.ErrOverFlow.Wrapf("balance of %v", acct.Address)
	}
	acct.Balance = sum
	return nil
}

func (acct *Account) SubBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if amt.Cmp(acct.Balance) > 0 {
		return xerrors.ErrInsufficientFund.Wrapf("balance: %v, amount: %v", acct.Balance.Dec(), amt.Dec())
	}
	acct.Balance = new(uint256.Int).Sub(acct.Balance, amt)
	return nil
}

func (acct *Account) CheckBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if amt.Cmp(acct.Balance) > 0 {
		return xerrors.ErrInsufficientFund.Wrapf("balance: %v, amount: %v", acct.Balance.Dec(), amt.Dec())
	}
	return nil
}
