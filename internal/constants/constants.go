// Package constants holds the fixed addresses the deploy steps are parameterised with.
package constants

import "github.com/ethereum/go-ethereum/common"

// CryptoDevTokenContractAddress is the Crypto Dev ERC20 the exchange trades against
const CryptoDevTokenContractAddress = "0x4e5fdf5f3a95c1a5b8a2b1e6e0f4d3c2b1a09876"

// CryptoDevToken returns CryptoDevTokenContractAddress as an address value
func CryptoDevToken() common.Address {
	return common.HexToAddress(CryptoDevTokenContractAddress)
}
