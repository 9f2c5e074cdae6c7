package engine

import (
	"strconv"
	"strings"
)

// Option tokens are the machine-readable identifiers behind every
// selectable choice. They travel to the transport layer inside
// domain.Option and come back verbatim through SelectOption.
const (
	TokenLocaleEN = "locale_en"
	TokenLocalePT = "locale_pt"

	TokenBalance  = "balance"
	TokenDeposit  = "deposit"
	TokenWithdraw = "withdraw"

	TokenMethodNew  = "method_new"
	TokenTypeBank   = "type_bank"
	TokenTypePayPal = "type_paypal"
	TokenTypeCrypto = "type_crypto"

	TokenCryptoBTC  = "crypto_btc"
	TokenCryptoETH  = "crypto_eth"
	TokenCryptoUSDT = "crypto_usdt"

	TokenCancel = "cancel"
)

const methodTokenPrefix = "method_"

// MethodToken returns the selection token for the method at index i
func MethodToken(i int) string {
	return methodTokenPrefix + strconv.Itoa(i)
}

// parseMethodToken extracts the method index from a method selection
// token. Returns false for any other token, including "method_new".
func parseMethodToken(token string) (int, bool) {
	rest, ok := strings.CutPrefix(token, methodTokenPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
