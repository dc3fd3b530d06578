package codec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// BalanceOfSelector is the 4-byte selector of balanceOf(address).
const BalanceOfSelector = "0x70a08231"

// CallDataLength is selector (4 bytes) + one 32-byte address slot.
const CallDataLength = 4 + 32

// maxQuantityBits bounds the magnitude accepted by ParseQuantity.
const maxQuantityBits = 128

// ERC20 ABI minimal part for balanceOf
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	ErrInvalidAddress      = errors.New("invalid address")
	ErrUnparseableQuantity = errors.New("unparseable quantity")
)

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func erc20() abi.ABI {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
	return parsedERC20ABI
}

// ValidateAddress reports whether addr is a 20-byte hex address, with or without the 0x prefix.
func ValidateAddress(addr string) error {
	s := strings.TrimSpace(addr)
	if !common.IsHexAddress(s) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return nil
}

// EncodeBalanceCall builds the call data of balanceOf(wallet): selector ‖ 32-byte left-padded address.
func EncodeBalanceCall(wallet string) ([]byte, error) {
	if err := ValidateAddress(wallet); err != nil {
		return nil, err
	}
	data, err := erc20().Pack("balanceOf", common.HexToAddress(strings.TrimSpace(wallet)))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf for %s: %w", wallet, err)
	}
	return data, nil
}

// EncodeBalanceCallHex is EncodeBalanceCall rendered as a 0x-prefixed hex string.
func EncodeBalanceCallHex(wallet string) (string, error) {
	data, err := EncodeBalanceCall(wallet)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(data), nil
}

// ParseQuantity strictly parses a base-16 quantity, optionally 0x-prefixed, of at most 128 bits.
func ParseQuantity(hexResult string) (*big.Int, error) {
	s := strings.TrimSpace(hexResult)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty result %q", ErrUnparseableQuantity, hexResult)
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnparseableQuantity, hexResult)
	}
	if n.BitLen() > maxQuantityBits {
		return nil, fmt.Errorf("%w: %q exceeds %d bits", ErrUnparseableQuantity, hexResult, maxQuantityBits)
	}
	return n, nil
}

// ToQuantity scales a raw integer amount by 10^decimals.
// Amounts beyond 2^53 base units lose exact representation in the float64 result.
func ToQuantity(raw *big.Int, decimals uint8) float64 {
	if raw == nil {
		return 0
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).InexactFloat64()
}

// Decode parses hexResult and scales it by decimals. An unparseable payload yields
// Decoded=false with a zero quantity instead of an error.
func Decode(hexResult string, decimals uint8) (*big.Int, float64, bool) {
	raw, err := ParseQuantity(hexResult)
	if err != nil {
		return big.NewInt(0), 0, false
	}
	return raw, ToQuantity(raw, decimals), true
}

// DecodeQuantity decodes an 18-decimals quantity, returning 0 for empty, "0x" or malformed input.
func DecodeQuantity(hexResult string) float64 {
	_, qty, _ := Decode(hexResult, 18)
	return qty
}
