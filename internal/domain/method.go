package domain

// MethodKind enumerates supported payment channels
type MethodKind string

const (
	MethodBankTransfer MethodKind = "bank_transfer"
	MethodPayPal       MethodKind = "paypal"
	MethodCryptoBTC    MethodKind = "crypto_btc"
	MethodCryptoETH    MethodKind = "crypto_eth"
	MethodCryptoUSDT   MethodKind = "crypto_usdt"
)

// PaymentMethod is a channel a user attaches funds movement to.
// Methods are immutable once appended and addressed by their position
// in the owning account's method list; deletion is unsupported, so
// positions are stable.
type PaymentMethod struct {
	Kind        MethodKind
	Description string
}
