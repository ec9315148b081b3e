package types

import (
	"encoding/hex"
	"fmt"
	"github.com/beatoz/taxpool-go/types/bytes"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"strings"
)

const AddrSize = 20

type Address = bytes.HexBytes

func ZeroAddress() Address {
	return make([]byte, AddrSize)
}

func IsZeroAddress(addr Address) bool {
	for _, b := range addr {
		if b != 0 {
			return false
		}
	}
	return true
}

func HexToAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	bz, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(bz) != AddrSize {
		return nil, fmt.Errorf("wrong address length: %d", len(bz))
	}
	return bz, nil
}

func ValidateAddress(addr Address) error {
	if len(addr) != AddrSize {
		return fmt.Errorf("wrong address length: %d", len(addr))
	}
	return nil
}

// DeriveAddress returns an address that no private key controls.
// It is used for accounts owned by the application itself such as the tax pool.
func DeriveAddress(name string) Address {
	return ethcrypto.Keccak256([]byte("taxpool/" + name))[12:]
}
