package v1

import (
	"github.com/beatoz/taxpool-go/types"
)

var (
	KeyPrefixAccount = []byte{0x00}

	KeyConfig            = []byte("config")
	KeyBeneficiariesList = []byte("beneficiaries_list")
	KeyTaxPool           = []byte("tax_pool")
	KeyPrefixBeneficiary = []byte("beneficiary")
)

// LedgerKeyAccount is `0x00 | len(denom) | denom | address`.
func LedgerKeyAccount(denom string, addr types.Address) LedgerKey {
	k := make([]byte, len(KeyPrefixAccount)+1+len(denom)+len(addr))
	copy(k, KeyPrefixAccount)
	k[len(KeyPrefixAccount)] = byte(len(denom))
	copy(k[len(KeyPrefixAccount)+1:], denom)
	copy(k[len(KeyPrefixAccount)+1+len(denom):], addr)
	return k
}

func LedgerKeyConfig() LedgerKey {
	return copyKey(KeyConfig)
}

func LedgerKeyBeneficiariesList() LedgerKey {
	return copyKey(KeyBeneficiariesList)
}

func LedgerKeyTaxPool() LedgerKey {
	return copyKey(KeyTaxPool)
}

func LedgerKeyBeneficiary(addr types.Address) LedgerKey {
	k := make([]byte, len(KeyPrefixBeneficiary)+len(addr))
	copy(k, KeyPrefixBeneficiary)
	copy(k[len(KeyPrefixBeneficiary):], addr)
	return k
}

func UnwrapKeyPrefix(key LedgerKey, prefix []byte) []byte {
	return key[len(prefix):]
}

func copyKey(key []byte) LedgerKey {
	k := make([]byte, len(key))
	copy(k, key)
	return k
}

// prefixEnd is the smallest key greater than every key with `prefix`,
// or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := copyKey(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
