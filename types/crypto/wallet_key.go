package crypto

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	"github.com/beatoz/taxpool-go/types/xerrors"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	DefaultWalletKeyDir     = "walkeys"
	DefaultValKeyDir        = "walkeys/vals"
	DefaultWalletKeyDirPerm = 0o700
	DefaultWalletKeyPerm    = 0o600
)

// scrypt cost of newly written key files.
var (
	ScryptN = keystore.StandardScryptN
	ScryptP = keystore.StandardScryptP
)

var ErrLocked = errors.New("wallet key is locked")

// WalletKey is an encrypted key file in the web3 secret storage format.
// The private key is kept in memory only while it is unlocked.
type WalletKey struct {
	Address types.Address `json:"address"`

	path string
	raw  []byte
	key  *keystore.Key
}

// NewWalletKeyFile generates a new key and stores it under `dir` encrypted with `secret`.
func NewWalletKeyFile(dir string, secret []byte) (*WalletKey, error) {
	acct, err := keystore.StoreKey(dir, string(secret), ScryptN, ScryptP)
	if err != nil {
		return nil, err
	}
	return OpenWalletKey(acct.URL.Path)
}

func CreateWalletKeyFiles(secret []byte, cnt int, dir string) ([]*WalletKey, error) {
	var wks []*WalletKey
	for i := 0; i < cnt; i++ {
		wk, err := NewWalletKeyFile(dir, secret)
		if err != nil {
			return nil, err
		}
		wks = append(wks, wk)
	}
	return wks, nil
}

func OpenWalletKey(path string) (*WalletKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	hdr := &struct {
		Address string `json:"address"`
	}{}
	if err := jsonx.Unmarshal(raw, hdr); err != nil {
		return nil, fmt.Errorf("%v: %w", filepath.Base(path), err)
	}
	addr, err := types.HexToAddress(hdr.Address)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", filepath.Base(path), err)
	}
	return &WalletKey{
		Address: addr,
		path:    path,
		raw:     raw,
	}, nil
}

func (wk *WalletKey) Path() string {
	return wk.path
}

func (wk *WalletKey) Unlock(secret []byte) error {
	key, err := keystore.DecryptKey(wk.raw, string(secret))
	if err != nil {
		return err
	}
	wk.key = key
	return nil
}

func (wk *WalletKey) Lock() {
	if wk.key != nil {
		b := wk.key.PrivateKey.D.Bits()
		for i := range b {
			b[i] = 0
		}
		wk.key = nil
	}
}

func (wk *WalletKey) IsUnlocked() bool {
	return wk.key != nil
}

func (wk *WalletKey) PrvKey() []byte {
	if wk.key == nil {
		return nil
	}
	return ethcrypto.FromECDSA(wk.key.PrivateKey)
}

func (wk *WalletKey) PubKey() []byte {
	if wk.key == nil {
		return nil
	}
	return ethcrypto.FromECDSAPub(&wk.key.PrivateKey.PublicKey)
}

// SignTrx sets `tx.Sig`.
func (wk *WalletKey) SignTrx(tx *ctrlertypes.Trx, chainId string) xerrors.XError {
	if wk.key == nil {
		return xerrors.From(ErrLocked)
	}
	prv := wk.PrvKey()
	defer clear(prv)
	_, xerr := ctrlertypes.SignTrx(tx, prv, chainId)
	return xerr
}

// ChangePassphrase re-encrypts the unlocked key with `secret` and overwrites the key file.
func (wk *WalletKey) ChangePassphrase(secret []byte) error {
	if wk.key == nil {
		return ErrLocked
	}
	raw, err := keystore.EncryptKey(wk.key, string(secret), ScryptN, ScryptP)
	if err != nil {
		return err
	}
	if err := os.WriteFile(wk.path, raw, DefaultWalletKeyPerm); err != nil {
		return err
	}
	wk.raw = raw
	return nil
}
