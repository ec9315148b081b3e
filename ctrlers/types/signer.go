package types

import (
	"fmt"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/bytes"
	"github.com/beatoz/taxpool-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// GetPreimage returns the message signed by the sender.
// It is the RLP encoding of `tx` without its signature, prefixed with the chain id.
func GetPreimage(tx *Trx, chainId string) ([]byte, xerrors.XError) {
	sig := tx.Sig
	tx.Sig = nil
	defer func() {
		tx.Sig = sig
	}()

	bz, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	prefix := fmt.Sprintf("\x19TAXPOOL(%s) Signed Message:\n%d", chainId, len(bz))
	return append([]byte(prefix), bz...), nil
}

// SignTrx signs `tx` with the secp256k1 private key `prvBytes` and sets `tx.Sig`.
func SignTrx(tx *Trx, prvBytes bytes.HexBytes, chainId string) (bytes.HexBytes, xerrors.XError) {
	preimg, xerr := GetPreimage(tx, chainId)
	if xerr != nil {
		return nil, xerr
	}

	prvKey, err := ethcrypto.ToECDSA(prvBytes)
	if err != nil {
		return nil, xerrors.From(err)
	}

	sig, err := ethcrypto.Sign(ethcrypto.Keccak256(preimg), prvKey)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if len(sig) != ethcrypto.SignatureLength {
		return nil, xerrors.From(fmt.Errorf("invalid signature length - expected: %d, actual: %d", ethcrypto.SignatureLength, len(sig)))
	}
	sig[64] += 27

	tx.Sig = sig
	return sig, nil
}

// VerifyTrx recovers the signer of `tx` and checks that it is `tx.From`.
// It returns the address and the uncompressed public key of the signer.
func VerifyTrx(tx *Trx, chainId string) (types.Address, bytes.HexBytes, xerrors.XError) {
	if len(tx.Sig) != ethcrypto.SignatureLength {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(fmt.Errorf("invalid signature length - expected: %d, actual: %d", ethcrypto.SignatureLength, len(tx.Sig)))
	}

	v := tx.Sig[64]
	if v != 27 && v != 28 {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(fmt.Errorf("invalid signature v - expected: 27 or 28, actual: %d", v))
	}

	preimg, xerr := GetPreimage(tx, chainId)
	if xerr != nil {
		return nil, nil, xerr
	}

	sig := make([]byte, len(tx.Sig))
	copy(sig, tx.Sig)
	sig[64] = v - 27

	pubKey, err := ethcrypto.Ecrecover(ethcrypto.Keccak256(preimg), sig)
	if err != nil {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(err)
	}
	addr := types.Address(ethcrypto.Keccak256(pubKey[1:])[12:])
	if !bytes.Equal(tx.From, addr) {
		return nil, nil, xerrors.ErrInvalidTrxSig.Wrap(fmt.Errorf("wrong recover address - expected: %v, actual: %v", tx.From, addr))
	}
	return addr, pubKey, nil
}
