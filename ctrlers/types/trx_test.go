package types_test

import (
	"encoding/hex"
	"testing"
	"time"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const testChainId = "taxpool-test-chain"

func newKey(t *testing.T) ([]byte, types.Address) {
	prv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return ethcrypto.FromECDSA(prv), ethcrypto.PubkeyToAddress(prv.PublicKey).Bytes()
}

func TestTrx_EncodeDecode(t *testing.T) {
	_, from := newKey(t)
	_, to := newKey(t)

	payloads := []ctrlertypes.ITrxPayload{
		&ctrlertypes.TrxPayloadTransfer{To: to, Denom: "uscrt", Amount: uint256.NewInt(1000)},
		&ctrlertypes.TrxPayloadWithdraw{},
		&ctrlertypes.TrxPayloadWithdraw{Amount: uint256.NewInt(150)},
		&ctrlertypes.TrxPayloadWithdraw{Amount: uint256.NewInt(0)},
		&ctrlertypes.TrxPayloadChangeAdmin{NewAdmin: to},
		&ctrlertypes.TrxPayloadSetBeneficiaries{
			Beneficiaries: []*ctrlertypes.BeneficiaryWeight{
				{Address: from, Weight: 350},
				{Address: to, Weight: 650},
			},
			DecimalPlaces: 3,
		},
		&ctrlertypes.TrxPayloadEmergencyWithdraw{},
	}

	for i, payload := range payloads {
		tx := ctrlertypes.NewTrx(1, from, int64(i), payload)
		tx.Sig = make([]byte, 65)

		bz, xerr := tx.Encode()
		require.NoError(t, xerr)

		decoded := &ctrlertypes.Trx{}
		require.NoError(t, decoded.Decode(bz))
		require.True(t, tx.Equal(decoded), "payload type %s", tx.TypeString())
		require.NoError(t, decoded.Validate())
	}
}

func TestTrx_WithdrawAmountAbsent(t *testing.T) {
	_, from := newKey(t)
	tx := ctrlertypes.NewTrx(1, from, 0, &ctrlertypes.TrxPayloadWithdraw{})
	bz, xerr := tx.Encode()
	require.NoError(t, xerr)

	decoded := &ctrlertypes.Trx{}
	require.NoError(t, decoded.Decode(bz))
	require.Nil(t, decoded.Payload.(*ctrlertypes.TrxPayloadWithdraw).Amount)

	tx = ctrlertypes.NewTrx(1, from, 0, &ctrlertypes.TrxPayloadWithdraw{Amount: uint256.NewInt(0)})
	bz, xerr = tx.Encode()
	require.NoError(t, xerr)
	require.NoError(t, decoded.Decode(bz))
	require.NotNil(t, decoded.Payload.(*ctrlertypes.TrxPayloadWithdraw).Amount)
	require.True(t, decoded.Payload.(*ctrlertypes.TrxPayloadWithdraw).Amount.IsZero())
}

func TestTrx_AmountTooLong(t *testing.T) {
	_, from := newKey(t)
	amt := make([]byte, 33)
	amt[0] = 1

	payloads := map[int32]interface{}{
		ctrlertypes.TRX_WITHDRAW: &struct {
			HasAmount bool
			Amount    []byte
		}{true, amt},
		ctrlertypes.TRX_TRANSFER: &struct {
			To     []byte
			Denom  string
			Amount []byte
		}{from, "uscrt", amt},
	}
	for txType, payload := range payloads {
		pbz, err := rlp.EncodeToBytes(payload)
		require.NoError(t, err)
		bz, err := rlp.EncodeToBytes(&struct {
			Version, Time, Nonce uint64
			From                 []byte
			Type                 uint64
			Payload, Sig         []byte
		}{1, uint64(time.Now().UnixNano()), 0, from, uint64(txType), pbz, []byte{1}})
		require.NoError(t, err)

		decoded := &ctrlertypes.Trx{}
		xerr := decoded.Decode(bz)
		require.Error(t, xerr, ctrlertypes.TrxTypeString(txType))
		require.True(t, xerr.Contains(xerrors.ErrInvalidTrx))
	}

	// 32 bytes is the largest amount.
	pbz, err := rlp.EncodeToBytes(&struct {
		HasAmount bool
		Amount    []byte
	}{true, amt[1:]})
	require.NoError(t, err)
	wd := &ctrlertypes.TrxPayloadWithdraw{}
	require.NoError(t, rlp.DecodeBytes(pbz, wd))
	require.Equal(t, 32, wd.Amount.ByteLen())
}

func TestTrx_Validate(t *testing.T) {
	_, from := newKey(t)

	tx := ctrlertypes.NewTrx(1, from, 0, &ctrlertypes.TrxPayloadEmergencyWithdraw{})
	require.True(t, tx.Validate().Contains(xerrors.ErrInvalidTrxSig))

	tx.Sig = make([]byte, 65)
	require.NoError(t, tx.Validate())

	tx.From = from[:10]
	require.Equal(t, xerrors.ErrInvalidAddress, tx.Validate())

	tx.From = from
	tx.Type = ctrlertypes.TRX_WITHDRAW
	require.Equal(t, xerrors.ErrInvalidTrxPayloadType, tx.Validate())

	tx.Type = 100
	require.Equal(t, xerrors.ErrInvalidTrxType, tx.Validate())
}

func TestSigner_SignVerify(t *testing.T) {
	prv, from := newKey(t)
	_, other := newKey(t)

	tx := ctrlertypes.NewTrx(1, from, 7, &ctrlertypes.TrxPayloadWithdraw{Amount: uint256.NewInt(150)})
	tx.Time = time.Now().UnixNano()

	sig, xerr := ctrlertypes.SignTrx(tx, prv, testChainId)
	require.NoError(t, xerr)
	require.Len(t, sig, 65)
	require.Equal(t, sig, tx.Sig)

	addr, pubKey, xerr := ctrlertypes.VerifyTrx(tx, testChainId)
	require.NoError(t, xerr)
	require.Equal(t, from, addr)
	require.Len(t, pubKey, 65)

	// the signature still verifies after encoding and decoding.
	bz, xerr := tx.Encode()
	require.NoError(t, xerr)
	decoded := &ctrlertypes.Trx{}
	require.NoError(t, decoded.Decode(bz))
	_, _, xerr = ctrlertypes.VerifyTrx(decoded, testChainId)
	require.NoError(t, xerr)

	// other chain
	_, _, xerr = ctrlertypes.VerifyTrx(tx, "other-chain")
	require.Error(t, xerr)
	require.True(t, xerr.Contains(xerrors.ErrInvalidTrx))

	// other sender
	tx.From = other
	_, _, xerr = ctrlertypes.VerifyTrx(tx, testChainId)
	require.Error(t, xerr)

	// tampered payload
	tx.From = from
	tx.Payload = &ctrlertypes.TrxPayloadWithdraw{Amount: uint256.NewInt(151)}
	_, _, xerr = ctrlertypes.VerifyTrx(tx, testChainId)
	require.Error(t, xerr)
}

func TestAccount_Balance(t *testing.T) {
	_, addr := newKey(t)
	acct := ctrlertypes.NewAccount(addr, "uscrt")
	require.NoError(t, acct.AddBalance(uint256.NewInt(100)))
	require.NoError(t, acct.CheckBalance(uint256.NewInt(100)))
	require.True(t, acct.CheckBalance(uint256.NewInt(101)).Contains(xerrors.ErrInsufficientFund))
	require.True(t, acct.SubBalance(uint256.NewInt(101)).Contains(xerrors.ErrInsufficientFund))
	require.NoError(t, acct.SubBalance(uint256.NewInt(40)))
	require.Equal(t, uint64(60), acct.GetBalance().Uint64())

	require.NoError(t, acct.CheckNonce(0))
	acct.AddNonce()
	require.True(t, acct.CheckNonce(0).Contains(xerrors.ErrInvalidNonce))

	bz, xerr := acct.Encode()
	require.NoError(t, xerr)
	decoded := &ctrlertypes.Account{}
	require.NoError(t, decoded.Decode(bz))
	require.Equal(t, acct.Address, decoded.Address)
	require.Equal(t, acct.Denom, decoded.Denom)
	require.Equal(t, int64(1), decoded.Nonce)
	require.Equal(t, uint64(60), decoded.Balance.Uint64())

	max := new(uint256.Int).SetAllOne()
	require.True(t, acct.AddBalance(max).Contains(xerrors.ErrOverFlow))
}

func TestParseBeneficiaryWeights(t *testing.T) {
	_, a := newKey(t)
	_, b := newKey(t)

	list, err := ctrlertypes.ParseBeneficiaryWeights([]string{
		"0x" + hex.EncodeToString(a) + ":350",
		hex.EncodeToString(b) + ":650",
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, a, list[0].Address)
	require.Equal(t, uint64(350), list[0].Weight)
	require.Equal(t, b, list[1].Address)
	require.Equal(t, uint64(650), list[1].Weight)

	for _, arg := range []string{
		hex.EncodeToString(a),
		hex.EncodeToString(a) + ":-1",
		hex.EncodeToString(a) + ":x",
		"0x1234:10",
	} {
		_, err = ctrlertypes.ParseBeneficiaryWeight(arg)
		require.Error(t, err, arg)
	}
}
