package taxpool

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	v1 "github.com/beatoz/taxpool-go/ledger/v1"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type BeneficiaryResponse struct {
	Address   types.Address `json:"address"`
	Weight    uint64        `json:"weight"`
	Share     string        `json:"share"`
	Withdrawn string        `json:"withdrawn"`
}

type BeneficiariesResponse struct {
	DecimalPlaces uint32                 `json:"decimalPlaces"`
	Beneficiaries []*BeneficiaryResponse `json:"beneficiaries"`
}

type BalanceResponse struct {
	Address   types.Address `json:"address"`
	Claimable string        `json:"claimable"`
}

type AdminResponse struct {
	Admin types.Address `json:"admin"`
}

type PoolResponse struct {
	Balance        string `json:"balance"`
	Denom          string `json:"denom"`
	TotalWeight    uint64 `json:"totalWeight"`
	TotalWithdrawn string `json:"totalWithdrawn"`
	AccPerShare    string `json:"accPerShare"`
	Baseline       string `json:"baseline"`
}

func (ctrler *TaxPoolCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	sess, xerr := ctrler.querySession(req.Height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}

	var resp interface{}
	switch req.Path {
	case "beneficiaries":
		list, decimalPlaces, xerr := sess.beneficiaries()
		if xerr != nil {
			return nil, xerr
		}
		_resp := &BeneficiariesResponse{DecimalPlaces: decimalPlaces}
		for _, b := range list {
			_resp.Beneficiaries = append(_resp.Beneficiaries, &BeneficiaryResponse{
				Address:   b.Address,
				Weight:    b.Weight,
				Share:     types.FormatFraction(b.Weight, int32(decimalPlaces)),
				Withdrawn: b.Withdrawn.Dec(),
			})
		}
		resp = _resp
	case "beneficiary_balance":
		if err := types.ValidateAddress(req.Data); err != nil {
			return nil, xerrors.ErrInvalidQueryParams.Wrap(err)
		}
		claimable, xerr := sess.claimableOf(req.Data)
		if xerr != nil {
			return nil, xerr
		}
		resp = &BalanceResponse{Address: req.Data, Claimable: claimable.Dec()}
	case "admin":
		cfg, xerr := sess.config()
		if xerr != nil {
			return nil, xerr
		}
		resp = &AdminResponse{Admin: cfg.Admin}
	case "config":
		cfg, xerr := sess.config()
		if xerr != nil {
			return nil, xerr
		}
		resp = cfg
	case "pool":
		cfg, xerr := sess.config()
		if xerr != nil {
			return nil, xerr
		}
		pool, bal, xerr := sess.refreshedPool(cfg)
		if xerr != nil {
			return nil, xerr
		}
		resp = &PoolResponse{
			Balance:        bal.Dec(),
			Denom:          cfg.Denom,
			TotalWeight:    pool.TotalWeight,
			TotalWithdrawn: pool.TotalWithdrawn.Dec(),
			AccPerShare:    pool.AccPerShare.Dec(),
			Baseline:       pool.Baseline.Dec(),
		}
	default:
		return nil, xerrors.ErrInvalidQueryPath
	}

	bz, err := jsonx.Marshal(resp)
	if err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	}
	return bz, nil
}

// querySession reads the state committed at `height`.
// The pool balance is read at the same height when the oracle keeps history.
func (ctrler *TaxPoolCtrler) querySession(height int64) (*session, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	store, xerr := ctrler.poolState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerr
	}

	oracle := ctrler.oracle
	if acctHandler, ok := oracle.(ctrlertypes.IAccountHandler); ok {
		if oracle, xerr = acctHandler.SimuAcctCtrlerAt(height); xerr != nil {
			return nil, xerr
		}
	}
	return newSession(store, oracle, false), nil
}

func (s *session) beneficiaries() ([]*StoredBeneficiary, uint32, xerrors.XError) {
	table, xerr := s.weightTable()
	if xerr != nil {
		return nil, 0, xerr
	}

	var ret []*StoredBeneficiary
	for _, addr := range table.Addresses {
		b, xerr := s.beneficiary(addr)
		if xerr != nil {
			return nil, 0, xerrors.ErrInternal.Wrapf("the entry of %v is missing: %v", addr, xerr)
		}
		ret = append(ret, b)
	}
	return ret, table.DecimalPlaces, nil
}

// countEntries returns the number of beneficiary entries in the store.
// It must be equal to the length of the weight table.
func (s *session) countEntries() (int, xerrors.XError) {
	cnt := 0
	xerr := s.store.Seek(v1.KeyPrefixBeneficiary, true, func(key v1.LedgerKey, item v1.ILedgerItem) xerrors.XError {
		cnt++
		return nil
	})
	return cnt, xerr
}
