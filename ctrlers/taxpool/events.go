package taxpool

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const EVENT_TYPE = "taxpool"

const (
	ACTION_WITHDRAW           = "withdraw"
	ACTION_SETTLE             = "settle"
	ACTION_CHANGE_ADMIN       = "change_admin"
	ACTION_SET_BENEFICIARIES  = "set_beneficiaries"
	ACTION_EMERGENCY_WITHDRAW = "emergency_withdraw"
)

func newEvent(action string, attrs ...abcitypes.EventAttribute) abcitypes.Event {
	return abcitypes.Event{
		Type: EVENT_TYPE,
		Attributes: append([]abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_ACTION), Value: []byte(action), Index: true},
		}, attrs...),
	}
}

func attrAddress(key string, addr types.Address) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{Key: []byte(key), Value: []byte(addr.String()), Index: true}
}

func attrAmount(amt *uint256.Int) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(amt.Dec()), Index: false}
}
