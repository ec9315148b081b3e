package acct

import (
	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a test key pair.
type Wallet struct {
	prvKey []byte
	addr   types.Address
}

func NewWallet() *Wallet {
	prv, err := ethcrypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &Wallet{
		prvKey: ethcrypto.FromECDSA(prv),
		addr:   ethcrypto.PubkeyToAddress(prv.PublicKey).Bytes(),
	}
}

func (w *Wallet) Address() types.Address {
	return w.addr
}

func (w *Wallet) SignTrx(tx *ctrlertypes.Trx, chainId string) xerrors.XError {
	_, xerr := ctrlertypes.SignTrx(tx, w.prvKey, chainId)
	return xerr
}
