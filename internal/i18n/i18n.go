package i18n

import (
	"fmt"

	"bankbot/internal/domain"
)

// Message identifies a localizable string
type Message string

const (
	MsgChooseLanguage    Message = "choose_language"
	MsgMainMenu          Message = "main_menu"
	MsgBalance           Message = "balance"
	MsgLastTransaction   Message = "last_transaction"
	MsgAskDepositAmount  Message = "ask_deposit_amount"
	MsgAskWithdrawAmount Message = "ask_withdraw_amount"
	MsgInvalidAmount     Message = "invalid_amount"
	MsgChooseMethod      Message = "choose_method"
	MsgChooseMethodType  Message = "choose_method_type"
	MsgChooseCrypto      Message = "choose_crypto"
	MsgAskBankName       Message = "ask_bank_name"
	MsgAskPayPalEmail    Message = "ask_paypal_email"
	MsgAskCryptoAddress  Message = "ask_crypto_address"
	MsgEmptyDetail       Message = "empty_detail"
	MsgMethodAdded       Message = "method_added"
	MsgSuccess           Message = "success"
	MsgInsufficient      Message = "insufficient_balance"
	MsgCancelled         Message = "cancelled"
	MsgChooseFromMenu    Message = "choose_from_menu"
	MsgGenericError      Message = "generic_error"
	MsgKindDeposit       Message = "kind_deposit"
	MsgKindWithdraw      Message = "kind_withdraw"

	LabelCheckBalance Message = "label_check_balance"
	LabelDeposit      Message = "label_deposit"
	LabelWithdraw     Message = "label_withdraw"
	LabelAddMethod    Message = "label_add_method"
	LabelBankTransfer Message = "label_bank_transfer"
	LabelPayPal       Message = "label_paypal"
	LabelCrypto       Message = "label_crypto"
	LabelCancel       Message = "label_cancel"
	LabelEnglish      Message = "label_english"
	LabelPortuguese   Message = "label_portuguese"
)

var catalog = map[Message]map[domain.Locale]string{
	MsgChooseLanguage: {
		domain.LocaleEnglish:    "Please select your language / Por favor, selecione seu idioma:",
		domain.LocalePortuguese: "Please select your language / Por favor, selecione seu idioma:",
	},
	MsgMainMenu: {
		domain.LocaleEnglish:    "Welcome to Virtual Bank! What would you like to do?",
		domain.LocalePortuguese: "Bem-vindo ao Banco Virtual! O que você gostaria de fazer?",
	},
	MsgBalance: {
		domain.LocaleEnglish:    "Your balance is: $ %d",
		domain.LocalePortuguese: "Seu saldo é: R$ %d",
	},
	MsgLastTransaction: {
		domain.LocaleEnglish:    "Last transaction: %s of $ %d via %s on %s",
		domain.LocalePortuguese: "Última transação: %s de R$ %d via %s em %s",
	},
	MsgAskDepositAmount: {
		domain.LocaleEnglish:    "How much would you like to deposit? (Enter a positive integer)",
		domain.LocalePortuguese: "Quanto você deseja depositar? (Digite um número inteiro maior que 0)",
	},
	MsgAskWithdrawAmount: {
		domain.LocaleEnglish:    "How much would you like to withdraw? (Enter a positive integer)",
		domain.LocalePortuguese: "Quanto você deseja sacar? (Digite um número inteiro maior que 0)",
	},
	MsgInvalidAmount: {
		domain.LocaleEnglish:    "Please enter a positive integer.",
		domain.LocalePortuguese: "Por favor, digite um número inteiro maior que 0.",
	},
	MsgChooseMethod: {
		domain.LocaleEnglish:    "Choose a payment method:",
		domain.LocalePortuguese: "Escolha um método de pagamento:",
	},
	MsgChooseMethodType: {
		domain.LocaleEnglish:    "Choose the type of payment method:",
		domain.LocalePortuguese: "Escolha o tipo de método de pagamento:",
	},
	MsgChooseCrypto: {
		domain.LocaleEnglish:    "Choose a cryptocurrency:",
		domain.LocalePortuguese: "Escolha uma criptomoeda:",
	},
	MsgAskBankName: {
		domain.LocaleEnglish:    "Enter the bank name:",
		domain.LocalePortuguese: "Digite o nome do banco:",
	},
	MsgAskPayPalEmail: {
		domain.LocaleEnglish:    "Enter your PayPal e-mail:",
		domain.LocalePortuguese: "Digite seu e-mail do PayPal:",
	},
	MsgAskCryptoAddress: {
		domain.LocaleEnglish:    "Enter the wallet address:",
		domain.LocalePortuguese: "Digite o endereço da carteira:",
	},
	MsgEmptyDetail: {
		domain.LocaleEnglish:    "Please enter a non-empty value.",
		domain.LocalePortuguese: "Por favor, digite um valor não vazio.",
	},
	MsgMethodAdded: {
		domain.LocaleEnglish:    "Payment method added.",
		domain.LocalePortuguese: "Método de pagamento adicionado.",
	},
	MsgSuccess: {
		domain.LocaleEnglish:    "Transaction of %s of $ %d completed successfully! Your new balance is $ %d.",
		domain.LocalePortuguese: "Transação de %s de R$ %d realizada com sucesso! Seu novo saldo é R$ %d.",
	},
	MsgInsufficient: {
		domain.LocaleEnglish:    "Insufficient balance for this withdrawal.",
		domain.LocalePortuguese: "Saldo insuficiente para essa retirada.",
	},
	MsgCancelled: {
		domain.LocaleEnglish:    "Transaction cancelled.",
		domain.LocalePortuguese: "Transação cancelada.",
	},
	MsgChooseFromMenu: {
		domain.LocaleEnglish:    "Please choose an option from the menu.",
		domain.LocalePortuguese: "Por favor, escolha uma opção no menu.",
	},
	MsgGenericError: {
		domain.LocaleEnglish:    "Something went wrong. Please try again later.",
		domain.LocalePortuguese: "Algo deu errado. Tente novamente mais tarde.",
	},
	MsgKindDeposit: {
		domain.LocaleEnglish:    "Deposit",
		domain.LocalePortuguese: "Depósito",
	},
	MsgKindWithdraw: {
		domain.LocaleEnglish:    "Withdrawal",
		domain.LocalePortuguese: "Saque",
	},

	LabelCheckBalance: {
		domain.LocaleEnglish:    "Check Balance",
		domain.LocalePortuguese: "Ver Saldo",
	},
	LabelDeposit: {
		domain.LocaleEnglish:    "Deposit",
		domain.LocalePortuguese: "Depositar",
	},
	LabelWithdraw: {
		domain.LocaleEnglish:    "Withdraw",
		domain.LocalePortuguese: "Sacar",
	},
	LabelAddMethod: {
		domain.LocaleEnglish:    "Add new method",
		domain.LocalePortuguese: "Adicionar novo método",
	},
	LabelBankTransfer: {
		domain.LocaleEnglish:    "Bank transfer",
		domain.LocalePortuguese: "Transferência bancária",
	},
	LabelPayPal: {
		domain.LocaleEnglish:    "PayPal",
		domain.LocalePortuguese: "PayPal",
	},
	LabelCrypto: {
		domain.LocaleEnglish:    "Crypto",
		domain.LocalePortuguese: "Cripto",
	},
	LabelCancel: {
		domain.LocaleEnglish:    "Cancel",
		domain.LocalePortuguese: "Cancelar",
	},
	LabelEnglish: {
		domain.LocaleEnglish:    "English",
		domain.LocalePortuguese: "English",
	},
	LabelPortuguese: {
		domain.LocaleEnglish:    "Português",
		domain.LocalePortuguese: "Português",
	},
}

// Localizer resolves message ids to localized strings
type Localizer struct {
	fallback domain.Locale
}

// New creates a localizer that falls back to English before a locale
// has been chosen
func New() *Localizer {
	return &Localizer{fallback: domain.LocaleEnglish}
}

// T returns the message translated into the given locale, formatted
// with args when the template has verbs. Unknown locales fall back to
// English; an unknown message id yields the id itself so a missing
// catalog entry is visible instead of silent.
func (l *Localizer) T(locale domain.Locale, msg Message, args ...interface{}) string {
	translations, ok := catalog[msg]
	if !ok {
		return string(msg)
	}

	text, ok := translations[locale]
	if !ok {
		text = translations[l.fallback]
	}

	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
