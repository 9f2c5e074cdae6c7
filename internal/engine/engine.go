package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"bankbot/internal/domain"
	"bankbot/internal/i18n"
	"bankbot/internal/service"
	"bankbot/internal/session"

	"go.uber.org/zap"
)

const lastTxTimeFormat = "02/01/2006 15:04:05"

// Engine drives the transaction conversation: action selection,
// amount entry, payment method selection or creation, and the final
// ledger mutation. It consumes abstract events and produces
// domain.Reply values, so it knows nothing about the transport.
//
// Event processing is serialized per user id; two simultaneous events
// for the same user never race on session state or the balance.
type Engine struct {
	accounts *service.AccountService
	ledger   *service.LedgerService
	methods  *service.MethodService
	sessions *session.Store
	loc      *i18n.Localizer
	logger   *zap.Logger

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// New creates a conversation engine
func New(
	accounts *service.AccountService,
	ledger *service.LedgerService,
	methods *service.MethodService,
	sessions *session.Store,
	loc *i18n.Localizer,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		accounts: accounts,
		ledger:   ledger,
		methods:  methods,
		sessions: sessions,
		loc:      loc,
		logger:   logger,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex serializing events for one user
func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	l, ok := e.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[userID] = l
	}
	return l
}

// StartSession handles first contact. It creates a default account if
// none exists, asks for a locale when one has not been chosen yet, and
// shows the main menu otherwise. Idempotent.
func (e *Engine) StartSession(ctx context.Context, userID int64) domain.Reply {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	account, err := e.accounts.EnsureAccount(ctx, userID)
	if err != nil {
		return e.storeErrorReply(userID, "", err)
	}

	if !account.HasLocale() {
		e.sessions.Put(userID, session.NewData(session.StageAwaitingLocale))
		return e.localePrompt()
	}

	e.sessions.Clear(userID)
	return e.mainMenu(account.Locale)
}

// SelectOption handles a button-driven choice identified by its token
func (e *Engine) SelectOption(ctx context.Context, userID int64, token string) domain.Reply {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	account, err := e.accounts.EnsureAccount(ctx, userID)
	if err != nil {
		return e.storeErrorReply(userID, "", err)
	}

	if token == TokenLocaleEN || token == TokenLocalePT {
		return e.selectLocale(ctx, userID, token)
	}

	// Everything else requires a chosen locale
	if !account.HasLocale() {
		e.sessions.Put(userID, session.NewData(session.StageAwaitingLocale))
		return e.localePrompt()
	}
	loc := account.Locale

	data, ok := e.sessions.Get(userID)
	if !ok {
		data = session.NewData(session.StageIdle)
	}

	switch token {
	case TokenCancel:
		e.sessions.Clear(userID)
		return e.menuWithPrefix(loc, e.loc.T(loc, i18n.MsgCancelled))

	case TokenBalance:
		return e.balanceReply(loc, account)

	case TokenDeposit:
		return e.beginTransaction(userID, loc, domain.KindDeposit)

	case TokenWithdraw:
		return e.beginTransaction(userID, loc, domain.KindWithdraw)

	case TokenMethodNew:
		if data.Stage != session.StageAwaitingMethodChoice {
			return e.menuFallback(loc)
		}
		data.Stage = session.StageAwaitingMethodType
		e.sessions.Put(userID, data)
		return e.methodTypePrompt(loc)

	case TokenTypeBank, TokenTypePayPal:
		if data.Stage != session.StageAwaitingMethodType {
			return e.menuFallback(loc)
		}
		if token == TokenTypeBank {
			data.Draft.Category = session.CategoryBankTransfer
		} else {
			data.Draft.Category = session.CategoryPayPal
		}
		data.Stage = session.StageAwaitingMethodDetail
		e.sessions.Put(userID, data)
		return e.detailPrompt(loc, data.Draft)

	case TokenTypeCrypto:
		if data.Stage != session.StageAwaitingMethodType {
			return e.menuFallback(loc)
		}
		data.Draft.Category = session.CategoryCrypto
		data.Stage = session.StageAwaitingCryptoKind
		e.sessions.Put(userID, data)
		return e.cryptoKindPrompt(loc)

	case TokenCryptoBTC, TokenCryptoETH, TokenCryptoUSDT:
		if data.Stage != session.StageAwaitingCryptoKind {
			return e.menuFallback(loc)
		}
		data.Draft.CryptoKind = cryptoKindForToken(token)
		data.Stage = session.StageAwaitingMethodDetail
		e.sessions.Put(userID, data)
		return e.detailPrompt(loc, data.Draft)
	}

	if idx, isMethod := parseMethodToken(token); isMethod {
		return e.confirmSelection(ctx, userID, loc, account, data, idx)
	}

	return e.menuFallback(loc)
}

// SubmitText handles free-text input, interpreted per current stage
func (e *Engine) SubmitText(ctx context.Context, userID int64, raw string) domain.Reply {
	l := e.userLock(userID)
	l.Lock()
	defer l.Unlock()

	account, err := e.accounts.EnsureAccount(ctx, userID)
	if err != nil {
		return e.storeErrorReply(userID, "", err)
	}

	if !account.HasLocale() {
		e.sessions.Put(userID, session.NewData(session.StageAwaitingLocale))
		return e.localePrompt()
	}
	loc := account.Locale
	text := strings.TrimSpace(raw)

	data, ok := e.sessions.Get(userID)
	if !ok {
		return e.menuFallback(loc)
	}

	switch data.Stage {
	case session.StageAwaitingAmount:
		return e.submitAmount(userID, loc, account, data, text)
	case session.StageAwaitingMethodDetail:
		return e.submitMethodDetail(ctx, userID, loc, data, text)
	default:
		// A button was expected; treat stray text like any other
		// out-of-place input
		return e.menuFallback(loc)
	}
}

// submitAmount validates the amount text and advances to method
// selection, or straight into method creation when the user has no
// methods yet. Invalid input re-prompts without touching the session.
func (e *Engine) submitAmount(userID int64, loc domain.Locale, account *domain.Account, data session.Data, text string) domain.Reply {
	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil || amount <= 0 {
		return domain.Reply{
			Text:    e.loc.T(loc, i18n.MsgInvalidAmount),
			Options: e.cancelRow(loc),
		}
	}

	data.PendingAmount = amount
	if len(account.Methods) == 0 {
		data.Stage = session.StageAwaitingMethodType
		e.sessions.Put(userID, data)
		return e.methodTypePrompt(loc)
	}

	data.Stage = session.StageAwaitingMethodChoice
	e.sessions.Put(userID, data)
	return e.methodChoice(loc, account.Methods, "")
}

// submitMethodDetail finishes method creation and re-presents the
// method list; the new method is never auto-selected.
func (e *Engine) submitMethodDetail(ctx context.Context, userID int64, loc domain.Locale, data session.Data, text string) domain.Reply {
	if text == "" {
		reply := e.detailPrompt(loc, data.Draft)
		reply.Text = e.loc.T(loc, i18n.MsgEmptyDetail) + "\n\n" + reply.Text
		return reply
	}

	kind, err := methodKindForDraft(data.Draft)
	if err != nil {
		e.logger.Error("invalid method draft in session",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		e.sessions.Clear(userID)
		return e.menuWithPrefix(loc, e.loc.T(loc, i18n.MsgGenericError))
	}

	if _, err := e.methods.Add(ctx, userID, kind, text); err != nil {
		if errors.Is(err, domain.ErrEmptyMethodDetail) {
			reply := e.detailPrompt(loc, data.Draft)
			reply.Text = e.loc.T(loc, i18n.MsgEmptyDetail) + "\n\n" + reply.Text
			return reply
		}
		return e.storeErrorReply(userID, loc, err)
	}

	fresh, err := e.accounts.GetAccount(ctx, userID)
	if err != nil {
		return e.storeErrorReply(userID, loc, err)
	}

	data.Stage = session.StageAwaitingMethodChoice
	data.Draft = session.MethodDraft{}
	e.sessions.Put(userID, data)
	return e.methodChoice(loc, fresh.Methods, e.loc.T(loc, i18n.MsgMethodAdded))
}

// confirmSelection is the confirmation step: picking a method is
// itself the confirmation, so the ledger mutation runs here. The
// selected index is re-validated against the freshly read method list
// and fails closed when stale.
func (e *Engine) confirmSelection(ctx context.Context, userID int64, loc domain.Locale, account *domain.Account, data session.Data, idx int) domain.Reply {
	if data.Stage != session.StageAwaitingMethodChoice || data.PendingAction == "" || data.PendingAmount <= 0 {
		return e.menuFallback(loc)
	}

	if idx >= len(account.Methods) {
		e.logger.Warn("stale payment method selection",
			zap.Int64("user_id", userID),
			zap.Int("index", idx),
			zap.Int("methods", len(account.Methods)),
		)
		e.sessions.Clear(userID)
		return e.menuWithPrefix(loc, e.loc.T(loc, i18n.MsgGenericError))
	}

	method := account.Methods[idx]
	data.SelectedMethod = idx
	e.sessions.Put(userID, data)

	newBalance, err := e.ledger.Execute(ctx, userID, data.PendingAction, data.PendingAmount, method.Description)
	if errors.Is(err, domain.ErrInsufficientBalance) {
		e.sessions.Clear(userID)
		return e.menuWithPrefix(loc, e.loc.T(loc, i18n.MsgInsufficient))
	}
	if err != nil {
		// Session kept so the user can retry the selection
		e.logger.Error("ledger mutation failed",
			zap.Int64("user_id", userID),
			zap.String("action", string(data.PendingAction)),
			zap.Int64("amount", data.PendingAmount),
			zap.Error(err),
		)
		return domain.Reply{Text: e.loc.T(loc, i18n.MsgGenericError)}
	}

	e.sessions.Clear(userID)
	kindLabel := e.kindLabel(loc, data.PendingAction)
	success := e.loc.T(loc, i18n.MsgSuccess, strings.ToLower(kindLabel), data.PendingAmount, newBalance)
	return e.menuWithPrefix(loc, success)
}

// beginTransaction opens a fresh session for a deposit or withdrawal
func (e *Engine) beginTransaction(userID int64, loc domain.Locale, kind domain.TransactionKind) domain.Reply {
	data := session.NewData(session.StageAwaitingAmount)
	data.PendingAction = kind
	e.sessions.Put(userID, data)

	msg := i18n.MsgAskDepositAmount
	if kind == domain.KindWithdraw {
		msg = i18n.MsgAskWithdrawAmount
	}
	return domain.Reply{
		Text:    e.loc.T(loc, msg),
		Options: e.cancelRow(loc),
	}
}

// selectLocale persists the language choice and shows the main menu
func (e *Engine) selectLocale(ctx context.Context, userID int64, token string) domain.Reply {
	locale := domain.LocaleEnglish
	if token == TokenLocalePT {
		locale = domain.LocalePortuguese
	}

	if err := e.accounts.SetLocale(ctx, userID, locale); err != nil {
		return e.storeErrorReply(userID, "", err)
	}

	e.sessions.Clear(userID)
	return e.mainMenu(locale)
}

// balanceReply shows the balance and the last transaction summary
func (e *Engine) balanceReply(loc domain.Locale, account *domain.Account) domain.Reply {
	text := e.loc.T(loc, i18n.MsgBalance, account.Balance)
	if tx := account.LastTransaction; tx != nil {
		text += "\n" + e.loc.T(loc, i18n.MsgLastTransaction,
			e.kindLabel(loc, tx.Kind),
			tx.Amount,
			tx.Method,
			tx.CreatedAt.Format(lastTxTimeFormat),
		)
	}
	return domain.Reply{
		Text:    text + "\n\n" + e.loc.T(loc, i18n.MsgMainMenu),
		Options: e.menuOptions(loc),
	}
}

func (e *Engine) localePrompt() domain.Reply {
	return domain.Reply{
		Text: e.loc.T("", i18n.MsgChooseLanguage),
		Options: []domain.Option{
			{Label: e.loc.T("", i18n.LabelEnglish), Token: TokenLocaleEN},
			{Label: e.loc.T("", i18n.LabelPortuguese), Token: TokenLocalePT},
		},
	}
}

func (e *Engine) mainMenu(loc domain.Locale) domain.Reply {
	return domain.Reply{
		Text:    e.loc.T(loc, i18n.MsgMainMenu),
		Options: e.menuOptions(loc),
	}
}

// menuWithPrefix prepends a status line to the main menu reply
func (e *Engine) menuWithPrefix(loc domain.Locale, prefix string) domain.Reply {
	menu := e.mainMenu(loc)
	menu.Text = prefix + "\n\n" + menu.Text
	return menu
}

// menuFallback is the reply for any input that does not fit the
// current stage; it never changes state
func (e *Engine) menuFallback(loc domain.Locale) domain.Reply {
	return domain.Reply{
		Text:    e.loc.T(loc, i18n.MsgChooseFromMenu),
		Options: e.menuOptions(loc),
	}
}

func (e *Engine) menuOptions(loc domain.Locale) []domain.Option {
	return []domain.Option{
		{Label: e.loc.T(loc, i18n.LabelCheckBalance), Token: TokenBalance},
		{Label: e.loc.T(loc, i18n.LabelDeposit), Token: TokenDeposit},
		{Label: e.loc.T(loc, i18n.LabelWithdraw), Token: TokenWithdraw},
	}
}

func (e *Engine) cancelRow(loc domain.Locale) []domain.Option {
	return []domain.Option{
		{Label: e.loc.T(loc, i18n.LabelCancel), Token: TokenCancel},
	}
}

// methodChoice lists existing methods by description plus the
// "add new" entry; an optional prefix line goes above the prompt
func (e *Engine) methodChoice(loc domain.Locale, methods []domain.PaymentMethod, prefix string) domain.Reply {
	text := e.loc.T(loc, i18n.MsgChooseMethod)
	if prefix != "" {
		text = prefix + "\n\n" + text
	}

	options := make([]domain.Option, 0, len(methods)+2)
	for i, m := range methods {
		options = append(options, domain.Option{Label: m.Description, Token: MethodToken(i)})
	}
	options = append(options,
		domain.Option{Label: e.loc.T(loc, i18n.LabelAddMethod), Token: TokenMethodNew},
		domain.Option{Label: e.loc.T(loc, i18n.LabelCancel), Token: TokenCancel},
	)

	return domain.Reply{Text: text, Options: options}
}

func (e *Engine) methodTypePrompt(loc domain.Locale) domain.Reply {
	return domain.Reply{
		Text: e.loc.T(loc, i18n.MsgChooseMethodType),
		Options: []domain.Option{
			{Label: e.loc.T(loc, i18n.LabelBankTransfer), Token: TokenTypeBank},
			{Label: e.loc.T(loc, i18n.LabelPayPal), Token: TokenTypePayPal},
			{Label: e.loc.T(loc, i18n.LabelCrypto), Token: TokenTypeCrypto},
			{Label: e.loc.T(loc, i18n.LabelCancel), Token: TokenCancel},
		},
	}
}

func (e *Engine) cryptoKindPrompt(loc domain.Locale) domain.Reply {
	return domain.Reply{
		Text: e.loc.T(loc, i18n.MsgChooseCrypto),
		Options: []domain.Option{
			{Label: "BTC", Token: TokenCryptoBTC},
			{Label: "ETH", Token: TokenCryptoETH},
			{Label: "USDT", Token: TokenCryptoUSDT},
			{Label: e.loc.T(loc, i18n.LabelCancel), Token: TokenCancel},
		},
	}
}

// detailPrompt asks for the type-specific free-text detail
func (e *Engine) detailPrompt(loc domain.Locale, draft session.MethodDraft) domain.Reply {
	var msg i18n.Message
	switch draft.Category {
	case session.CategoryBankTransfer:
		msg = i18n.MsgAskBankName
	case session.CategoryPayPal:
		msg = i18n.MsgAskPayPalEmail
	default:
		msg = i18n.MsgAskCryptoAddress
	}
	return domain.Reply{
		Text:    e.loc.T(loc, msg),
		Options: e.cancelRow(loc),
	}
}

// storeErrorReply logs a persistence failure and tells the user to
// try again later; the session is left as is
func (e *Engine) storeErrorReply(userID int64, loc domain.Locale, err error) domain.Reply {
	e.logger.Error("store operation failed",
		zap.Int64("user_id", userID),
		zap.Error(err),
	)
	return domain.Reply{Text: e.loc.T(loc, i18n.MsgGenericError)}
}

func (e *Engine) kindLabel(loc domain.Locale, kind domain.TransactionKind) string {
	if kind == domain.KindWithdraw {
		return e.loc.T(loc, i18n.MsgKindWithdraw)
	}
	return e.loc.T(loc, i18n.MsgKindDeposit)
}

func cryptoKindForToken(token string) domain.MethodKind {
	switch token {
	case TokenCryptoETH:
		return domain.MethodCryptoETH
	case TokenCryptoUSDT:
		return domain.MethodCryptoUSDT
	default:
		return domain.MethodCryptoBTC
	}
}

// methodKindForDraft maps a completed draft to the stored method kind
func methodKindForDraft(draft session.MethodDraft) (domain.MethodKind, error) {
	switch draft.Category {
	case session.CategoryBankTransfer:
		return domain.MethodBankTransfer, nil
	case session.CategoryPayPal:
		return domain.MethodPayPal, nil
	case session.CategoryCrypto:
		if draft.CryptoKind == "" {
			return "", fmt.Errorf("crypto draft without a chosen sub-type")
		}
		return draft.CryptoKind, nil
	default:
		return "", fmt.Errorf("draft without a method category")
	}
}
