package cmds

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	ctrlertypes "github.com/beatoz/taxpool-go/ctrlers/types"
	"github.com/beatoz/taxpool-go/libs"
	"github.com/beatoz/taxpool-go/libs/jsonx"
	"github.com/beatoz/taxpool-go/types"
	acrypto "github.com/beatoz/taxpool-go/types/crypto"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	rpchttp "github.com/tendermint/tendermint/rpc/client/http"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
)

type accountResponse struct {
	Address types.Address `json:"address"`
	Denom   string        `json:"denom"`
	Nonce   int64         `json:"nonce"`
	Balance string        `json:"balance"`
}

// client talks to a node through its tendermint rpc.
type client struct {
	rpc *rpchttp.HTTP
}

func newClient(url string) (*client, error) {
	rpc, err := rpchttp.New(url, "/websocket")
	if err != nil {
		return nil, err
	}
	return &client{rpc: rpc}, nil
}

func (c *client) query(path string, data []byte, height int64) ([]byte, error) {
	ret, err := c.rpc.ABCIQueryWithOptions(context.Background(), path, data, rpcclient.ABCIQueryOptions{Height: height})
	if err != nil {
		return nil, err
	}
	if ret.Response.Code != abcitypes.CodeTypeOK {
		return nil, fmt.Errorf("query %v: code %d: %v", path, ret.Response.Code, ret.Response.Log)
	}
	return ret.Response.Value, nil
}

func (c *client) account(addr types.Address, denom string) (*accountResponse, error) {
	path := "account"
	if denom != "" && denom != types.DefaultDenom {
		path += "/" + denom
	}
	bz, err := c.query(path, addr, 0)
	if err != nil {
		return nil, err
	}
	acct := &accountResponse{}
	if err := jsonx.Unmarshal(bz, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (c *client) chainID() (string, error) {
	status, err := c.rpc.Status(context.Background())
	if err != nil {
		return "", err
	}
	return status.NodeInfo.Network, nil
}

// sendTrx signs a tx carrying `payload` with the wallet key `from` and waits until it is committed.
func (c *client) sendTrx(from string, payload ctrlertypes.ITrxPayload) (*ctypes.ResultBroadcastTxCommit, error) {
	if from == "" {
		return nil, errors.New("please set the wallet key file of sender")
	}
	wk, err := acrypto.OpenWalletKey(from)
	if err != nil {
		return nil, err
	}

	s, err := libs.ReadSecret("TAXPOOL_WALLET_SECRET", fmt.Sprintf("Passphrase for %v: ", filepath.Base(from)))
	if err != nil {
		return nil, err
	}
	err = wk.Unlock(s)
	libs.ClearCredential(s)
	if err != nil {
		return nil, err
	}
	defer wk.Lock()

	// the nonce is kept on the account of the default denomination.
	acct, err := c.account(wk.Address, types.DefaultDenom)
	if err != nil {
		return nil, err
	}
	chainId, err := c.chainID()
	if err != nil {
		return nil, err
	}

	tx := ctrlertypes.NewTrx(1, wk.Address, acct.Nonce, payload)
	if xerr := wk.SignTrx(tx, chainId); xerr != nil {
		return nil, xerr
	}
	bz, xerr := tx.Encode()
	if xerr != nil {
		return nil, xerr
	}

	ret, err := c.rpc.BroadcastTxCommit(context.Background(), bz)
	if err != nil {
		return nil, err
	}
	return ret, checkResult(ret)
}

func checkResult(ret *ctypes.ResultBroadcastTxCommit) error {
	if ret.CheckTx.Code != abcitypes.CodeTypeOK {
		return fmt.Errorf("check tx: code %d: %v", ret.CheckTx.Code, ret.CheckTx.Log)
	}
	if ret.DeliverTx.Code != abcitypes.CodeTypeOK {
		return fmt.Errorf("deliver tx: code %d: %v", ret.DeliverTx.Code, ret.DeliverTx.Log)
	}
	return nil
}

func printJSON(v interface{}) error {
	out, err := jsonx.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
