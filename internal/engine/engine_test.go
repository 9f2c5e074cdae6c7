package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bankbot/internal/domain"
	"bankbot/internal/i18n"
	"bankbot/internal/service"
	"bankbot/internal/session"
	"bankbot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func newTestEngine() (*Engine, *testutil.FakeAccountRepo, *session.Store, *i18n.Localizer) {
	repo := testutil.NewFakeAccountRepo()
	sessions := session.NewStore()
	loc := i18n.New()

	e := New(
		service.NewAccountService(repo),
		service.NewLedgerService(repo),
		service.NewMethodService(repo),
		sessions,
		loc,
		testutil.NewTestLogger(),
	)
	return e, repo, sessions, loc
}

func optionTokens(reply domain.Reply) []string {
	tokens := make([]string, 0, len(reply.Options))
	for _, o := range reply.Options {
		tokens = append(tokens, o.Token)
	}
	return tokens
}

func TestEngine_StartSession_NewUserAsksLocale(t *testing.T) {
	e, repo, _, loc := newTestEngine()
	ctx := context.Background()

	reply := e.StartSession(ctx, 1001)

	assert.Equal(t, loc.T("", i18n.MsgChooseLanguage), reply.Text)
	assert.Equal(t, []string{TokenLocaleEN, TokenLocalePT}, optionTokens(reply))

	account := repo.MustGet(1001)
	assert.Equal(t, int64(0), account.Balance)
	assert.False(t, account.HasLocale())
	assert.Empty(t, account.Methods)
}

func TestEngine_StartSession_IsIdempotent(t *testing.T) {
	e, repo, _, _ := newTestEngine()
	ctx := context.Background()

	e.StartSession(ctx, 1001)
	e.StartSession(ctx, 1001)

	account := repo.MustGet(1001)
	assert.Equal(t, int64(0), account.Balance)
}

func TestEngine_StartSession_KnownUserShowsMenu(t *testing.T) {
	e, repo, _, loc := newTestEngine()
	ctx := context.Background()

	repo.Seed(testutil.NewTestAccount(1001, 50, domain.LocalePortuguese))

	reply := e.StartSession(ctx, 1001)

	assert.Equal(t, loc.T(domain.LocalePortuguese, i18n.MsgMainMenu), reply.Text)
	assert.Equal(t, []string{TokenBalance, TokenDeposit, TokenWithdraw}, optionTokens(reply))
}

func TestEngine_FullDepositScenario(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	reply := e.StartSession(ctx, u1)
	assert.Equal(t, loc.T("", i18n.MsgChooseLanguage), reply.Text)

	reply = e.SelectOption(ctx, u1, TokenLocaleEN)
	assert.Equal(t, loc.T(en, i18n.MsgMainMenu), reply.Text)
	assert.Equal(t, en, repo.MustGet(u1).Locale)

	reply = e.SelectOption(ctx, u1, TokenDeposit)
	assert.Equal(t, loc.T(en, i18n.MsgAskDepositAmount), reply.Text)
	assert.Equal(t, []string{TokenCancel}, optionTokens(reply))

	// No stored methods, so the amount leads straight into creation
	reply = e.SubmitText(ctx, u1, "100")
	assert.Equal(t, loc.T(en, i18n.MsgChooseMethodType), reply.Text)
	assert.Equal(t, []string{TokenTypeBank, TokenTypePayPal, TokenTypeCrypto, TokenCancel}, optionTokens(reply))

	reply = e.SelectOption(ctx, u1, TokenTypePayPal)
	assert.Equal(t, loc.T(en, i18n.MsgAskPayPalEmail), reply.Text)

	// Appending re-presents the list; the new method is not auto-picked
	reply = e.SubmitText(ctx, u1, "a@b.com")
	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgMethodAdded))
	assert.Equal(t, []string{MethodToken(0), TokenMethodNew, TokenCancel}, optionTokens(reply))
	assert.Equal(t, "Paypal: a@b.com", reply.Options[0].Label)
	assert.Equal(t, int64(0), repo.MustGet(u1).Balance)

	// Picking the method is the confirmation
	reply = e.SelectOption(ctx, u1, MethodToken(0))
	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgSuccess, "deposit", int64(100), int64(100)))

	account := repo.MustGet(u1)
	assert.Equal(t, int64(100), account.Balance)
	assert.NotNil(t, account.LastTransaction)
	assert.Equal(t, domain.KindDeposit, account.LastTransaction.Kind)
	assert.Equal(t, int64(100), account.LastTransaction.Amount)
	assert.Equal(t, "Paypal: a@b.com", account.LastTransaction.Method)

	_, ok := sessions.Get(u1)
	assert.False(t, ok, "session must be cleared after completion")
}

func TestEngine_DepositThenWithdrawRestoresBalance(t *testing.T) {
	e, repo, _, _ := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)

	repo.Seed(testutil.NewTestAccount(u1, 30, domain.LocaleEnglish,
		testutil.NewTestMethod(domain.MethodPayPal, "Paypal: a@b.com"),
	))

	e.SelectOption(ctx, u1, TokenDeposit)
	e.SubmitText(ctx, u1, "70")
	e.SelectOption(ctx, u1, MethodToken(0))
	assert.Equal(t, int64(100), repo.MustGet(u1).Balance)

	e.SelectOption(ctx, u1, TokenWithdraw)
	e.SubmitText(ctx, u1, "70")
	e.SelectOption(ctx, u1, MethodToken(0))

	account := repo.MustGet(u1)
	assert.Equal(t, int64(30), account.Balance)
	assert.Equal(t, domain.KindWithdraw, account.LastTransaction.Kind)
	assert.Equal(t, int64(70), account.LastTransaction.Amount)
}

func TestEngine_WithdrawInsufficientBalance(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 100, en,
		testutil.NewTestMethod(domain.MethodPayPal, "Paypal: a@b.com"),
	))

	e.SelectOption(ctx, u1, TokenWithdraw)
	e.SubmitText(ctx, u1, "150")
	reply := e.SelectOption(ctx, u1, MethodToken(0))

	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgInsufficient))
	assert.Equal(t, []string{TokenBalance, TokenDeposit, TokenWithdraw}, optionTokens(reply))

	account := repo.MustGet(u1)
	assert.Equal(t, int64(100), account.Balance, "balance must not change")
	assert.Nil(t, account.LastTransaction)
	assert.Len(t, account.Methods, 1)

	_, ok := sessions.Get(u1)
	assert.False(t, ok, "session must be cleared after the abort")
}

func TestEngine_InvalidAmountReprompts(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 0, en,
		testutil.NewTestMethod(domain.MethodPayPal, "Paypal: a@b.com"),
	))

	e.SelectOption(ctx, u1, TokenDeposit)

	for _, input := range []string{"abc", "-5", "0", "12.5", ""} {
		reply := e.SubmitText(ctx, u1, input)
		assert.Equal(t, loc.T(en, i18n.MsgInvalidAmount), reply.Text, "input %q", input)

		data, ok := sessions.Get(u1)
		assert.True(t, ok)
		assert.Equal(t, session.StageAwaitingAmount, data.Stage)
		assert.Equal(t, domain.KindDeposit, data.PendingAction)
		assert.Equal(t, int64(0), data.PendingAmount)
	}

	// A valid amount still goes through after the retries
	reply := e.SubmitText(ctx, u1, "50")
	assert.Equal(t, loc.T(en, i18n.MsgChooseMethod), reply.Text)
	assert.Equal(t, int64(0), repo.MustGet(u1).Balance)
}

func TestEngine_FreeTextWithoutPendingAction(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 100, en))

	reply := e.SubmitText(ctx, u1, "hello")

	assert.Equal(t, loc.T(en, i18n.MsgChooseFromMenu), reply.Text)
	assert.Equal(t, int64(100), repo.MustGet(u1).Balance)
	_, ok := sessions.Get(u1)
	assert.False(t, ok, "stray text must not create a session")
}

func TestEngine_StrayOptionFallsBack(t *testing.T) {
	e, repo, _, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 0, en))

	// Type pick without being in the creation sub-flow
	reply := e.SelectOption(ctx, u1, TokenTypePayPal)
	assert.Equal(t, loc.T(en, i18n.MsgChooseFromMenu), reply.Text)

	// Unknown token
	reply = e.SelectOption(ctx, u1, "bogus_token")
	assert.Equal(t, loc.T(en, i18n.MsgChooseFromMenu), reply.Text)
}

func TestEngine_CancelClearsSession(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 100, en))

	e.SelectOption(ctx, u1, TokenWithdraw)
	e.SubmitText(ctx, u1, "50")

	reply := e.SelectOption(ctx, u1, TokenCancel)

	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgCancelled))
	assert.Equal(t, []string{TokenBalance, TokenDeposit, TokenWithdraw}, optionTokens(reply))
	assert.Equal(t, int64(100), repo.MustGet(u1).Balance)

	_, ok := sessions.Get(u1)
	assert.False(t, ok)
}

func TestEngine_StaleMethodSelectionFailsClosed(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 100, en,
		testutil.NewTestMethod(domain.MethodPayPal, "Paypal: a@b.com"),
	))

	e.SelectOption(ctx, u1, TokenDeposit)
	e.SubmitText(ctx, u1, "10")

	// Index beyond the method list, as after a raced list change
	reply := e.SelectOption(ctx, u1, MethodToken(5))

	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgGenericError))
	assert.Equal(t, int64(100), repo.MustGet(u1).Balance)

	_, ok := sessions.Get(u1)
	assert.False(t, ok, "stale selection must clear the session")
}

func TestEngine_MethodListPreservesOrder(t *testing.T) {
	e, repo, _, _ := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)

	repo.Seed(testutil.NewTestAccount(u1, 0, domain.LocaleEnglish,
		testutil.NewTestMethod(domain.MethodPayPal, "Paypal: a@b.com"),
		testutil.NewTestMethod(domain.MethodBankTransfer, "Bank transfer: Nubank"),
	))

	e.SelectOption(ctx, u1, TokenDeposit)
	reply := e.SubmitText(ctx, u1, "10")

	assert.Equal(t, "Paypal: a@b.com", reply.Options[0].Label)
	assert.Equal(t, "Bank transfer: Nubank", reply.Options[1].Label)

	// Append a third through the sub-flow and check indices held
	e.SelectOption(ctx, u1, TokenMethodNew)
	e.SelectOption(ctx, u1, TokenTypeCrypto)
	e.SelectOption(ctx, u1, TokenCryptoETH)
	reply = e.SubmitText(ctx, u1, "0xabc")

	assert.Equal(t, []string{MethodToken(0), MethodToken(1), MethodToken(2), TokenMethodNew, TokenCancel}, optionTokens(reply))
	assert.Equal(t, "Paypal: a@b.com", reply.Options[0].Label)
	assert.Equal(t, "Bank transfer: Nubank", reply.Options[1].Label)
	assert.Equal(t, "ETH: 0xabc", reply.Options[2].Label)

	account := repo.MustGet(u1)
	assert.Len(t, account.Methods, 3)
	assert.Equal(t, domain.MethodCryptoETH, account.Methods[2].Kind)
}

func TestEngine_EmptyMethodDetailReprompts(t *testing.T) {
	e, repo, _, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 0, en))

	e.SelectOption(ctx, u1, TokenDeposit)
	e.SubmitText(ctx, u1, "10")
	e.SelectOption(ctx, u1, TokenTypeBank)

	reply := e.SubmitText(ctx, u1, "   ")

	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgEmptyDetail))
	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgAskBankName))
	assert.Empty(t, repo.MustGet(u1).Methods)

	// A real name still completes the sub-flow
	reply = e.SubmitText(ctx, u1, "Nubank")
	assert.Equal(t, "Bank transfer: Nubank", reply.Options[0].Label)
}

func TestEngine_BalanceShowsLastTransaction(t *testing.T) {
	e, repo, _, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	account := testutil.NewTestAccount(u1, 250, en)
	account.LastTransaction = &domain.Transaction{
		Kind:      domain.KindDeposit,
		Amount:    100,
		Method:    "Paypal: a@b.com",
		CreatedAt: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
	}
	repo.Seed(account)

	reply := e.SelectOption(ctx, u1, TokenBalance)

	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgBalance, int64(250)))
	assert.Contains(t, reply.Text, "Deposit")
	assert.Contains(t, reply.Text, "01/06/2024 10:30:00")
	assert.Equal(t, []string{TokenBalance, TokenDeposit, TokenWithdraw}, optionTokens(reply))
}

func TestEngine_LocaleGateBeforeMenu(t *testing.T) {
	e, _, _, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)

	// Any input before a locale is chosen re-asks for the locale
	reply := e.SubmitText(ctx, u1, "hi")
	assert.Equal(t, loc.T("", i18n.MsgChooseLanguage), reply.Text)

	reply = e.SelectOption(ctx, u1, TokenDeposit)
	assert.Equal(t, loc.T("", i18n.MsgChooseLanguage), reply.Text)
}

func TestEngine_PortugueseFlow(t *testing.T) {
	e, repo, _, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	pt := domain.LocalePortuguese

	e.StartSession(ctx, u1)
	reply := e.SelectOption(ctx, u1, TokenLocalePT)

	assert.Equal(t, loc.T(pt, i18n.MsgMainMenu), reply.Text)
	assert.Equal(t, pt, repo.MustGet(u1).Locale)

	reply = e.SelectOption(ctx, u1, TokenWithdraw)
	assert.Equal(t, loc.T(pt, i18n.MsgAskWithdrawAmount), reply.Text)
}

func TestEngine_StoreFailurePreservesSession(t *testing.T) {
	e, repo, sessions, loc := newTestEngine()
	ctx := context.Background()
	const u1 = int64(1001)
	en := domain.LocaleEnglish

	repo.Seed(testutil.NewTestAccount(u1, 100, en,
		testutil.NewTestMethod(domain.MethodPayPal, "Paypal: a@b.com"),
	))

	e.SelectOption(ctx, u1, TokenDeposit)
	e.SubmitText(ctx, u1, "40")

	repo.FailWith = fmt.Errorf("connection refused")
	reply := e.SelectOption(ctx, u1, MethodToken(0))
	assert.Equal(t, loc.T(en, i18n.MsgGenericError), reply.Text)

	data, ok := sessions.Get(u1)
	assert.True(t, ok, "session survives a store outage")
	assert.Equal(t, domain.KindDeposit, data.PendingAction)
	assert.Equal(t, int64(40), data.PendingAmount)

	// Retrying once the store is back completes the transaction
	repo.FailWith = nil
	reply = e.SelectOption(ctx, u1, MethodToken(0))
	assert.Contains(t, reply.Text, loc.T(en, i18n.MsgSuccess, "deposit", int64(40), int64(140)))
	assert.Equal(t, int64(140), repo.MustGet(u1).Balance)
}
