package lemonway

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Operation describes one remote method: the keys it accepts and how its
// result is read from the decoded response.
type Operation struct {
	Name     string
	Method   string
	Required []string
	Optional []string
	Extract  ResultHandler
}

// NewOperation declares an operation. Method is derived from name, so
// "money_in_with_card_id" posts "MoneyInWithCardId". A nil extract returns
// the decoded Map unchanged.
func NewOperation(name string, required, optional []string, extract ResultHandler) *Operation {
	return &Operation{
		Name:     name,
		Method:   methodName(name),
		Required: required,
		Optional: optional,
		Extract:  extract,
	}
}

func text(path ...string) ResultHandler {
	return func(m Map) (any, error) { return m.Leaf(path...) }
}

func sub(path ...string) ResultHandler {
	return func(m Map) (any, error) { return m.Sub(path...) }
}

func records(path ...string) ResultHandler {
	return func(m Map) (any, error) { return m.Records(path...) }
}

var lookupKeys = []string{"transactionId", "transactionComment"}

var (
	OpRegisterWallet = NewOperation("register_wallet",
		[]string{"wallet", "clientMail", "clientTitle", "clientFirstName", "clientLastName"},
		[]string{"clientTitle", "clientHandset"},
		text("wallet", "id"))

	OpGetWalletDetails = NewOperation("get_wallet_details",
		[]string{"wallet"}, nil,
		sub("wallet"))

	OpMoneyIn = NewOperation("money_in",
		[]string{"wallet", "cardType", "cardNumber", "cardCrypto", "cardDate", "amountTot"},
		[]string{"amountCom", "message"},
		sub("trans", "hpay"))

	OpMoneyInWebInit = NewOperation("money_in_web_init",
		[]string{"wallet", "amountTot", "wkToken", "returnUrl", "errorUrl", "cancelUrl"},
		[]string{"amountCom", "message", "useRegisteredCard"},
		text("moneyinweb", "token"))

	OpRegisterCard = NewOperation("register_card",
		[]string{"wallet", "cardType", "cardNumber", "cardCode", "cardDate"}, nil,
		text("card", "id"))

	OpUnregisterCard = NewOperation("unregister_card",
		[]string{"wallet", "cardId"}, nil,
		text("card", "id"))

	OpMoneyInWithCardID = NewOperation("money_in_with_card_id",
		[]string{"wallet", "cardId", "amountTot"},
		[]string{"amountCom", "message"},
		sub("trans", "hpay"))

	OpSendPayment = NewOperation("send_payment",
		[]string{"debitWallet", "creditWallet", "amount"},
		[]string{"message"},
		sub("trans", "hpay"))

	OpRegisterIBAN = NewOperation("register_iban",
		[]string{"wallet", "holder", "bic", "iban", "dom1", "dom2"}, nil,
		text("iban", "s"))

	OpMoneyOut = NewOperation("money_out",
		[]string{"wallet", "amountTot"},
		[]string{"amountCom", "message", "desc"},
		sub("trans", "hpay"))

	OpGetPaymentDetails = NewOperation("get_payment_details",
		lookupKeys, nil,
		records("trans", "hpay"))

	OpGetMoneyInDetails = NewOperation("get_money_in_details",
		nil, lookupKeys,
		records("trans", "hpay"))

	OpGetMoneyOutDetails = NewOperation("get_money_out_details",
		nil, lookupKeys,
		records("trans", "hpay"))
)

var whiteLabelCatalog = []*Operation{
	OpRegisterWallet,
	OpGetWalletDetails,
	OpMoneyIn,
	OpMoneyInWebInit,
	OpRegisterCard,
	OpUnregisterCard,
	OpMoneyInWithCardID,
	OpSendPayment,
	OpRegisterIBAN,
	OpMoneyOut,
	OpGetPaymentDetails,
	OpGetMoneyInDetails,
	OpGetMoneyOutDetails,
}

func execute[T any](ctx context.Context, c *Client, op *Operation, attrs Attributes) (T, error) {
	var zero T
	if _, ok := c.profile.Lookup(op.Name); !ok {
		return zero, fmt.Errorf("lemonway: %w: %s is not offered by %s", ErrUnknownOperation, op.Name, c.profile.Name)
	}
	out, err := c.Execute(ctx, op, attrs)
	if err != nil {
		return zero, err
	}
	v, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("lemonway: %s: %w: result is %T", op.Name, ErrUnexpectedResponse, out)
	}
	return v, nil
}

// RegisterWallet creates a wallet and returns its identifier.
func (c *Client) RegisterWallet(ctx context.Context, attrs Attributes) (string, error) {
	return execute[string](ctx, c, OpRegisterWallet, attrs)
}

// GetWalletDetails returns status, balance, name, email and IBAN state of a wallet.
func (c *Client) GetWalletDetails(ctx context.Context, attrs Attributes) (Map, error) {
	return execute[Map](ctx, c, OpGetWalletDetails, attrs)
}

// MoneyIn credits a wallet from a card without 3-D Secure and returns the transaction.
func (c *Client) MoneyIn(ctx context.Context, attrs Attributes) (Map, error) {
	return execute[Map](ctx, c, OpMoneyIn, attrs)
}

// MoneyInWebInit starts a 3-D Secure card payment and returns the token to
// pass to the web kit.
func (c *Client) MoneyInWebInit(ctx context.Context, attrs Attributes) (string, error) {
	return execute[string](ctx, c, OpMoneyInWebInit, attrs)
}

// RegisterCard attaches a card to a wallet and returns the card identifier.
func (c *Client) RegisterCard(ctx context.Context, attrs Attributes) (string, error) {
	return execute[string](ctx, c, OpRegisterCard, attrs)
}

// UnregisterCard detaches a card from a wallet.
func (c *Client) UnregisterCard(ctx context.Context, attrs Attributes) (string, error) {
	return execute[string](ctx, c, OpUnregisterCard, attrs)
}

// MoneyInWithCardID credits a wallet from a registered card.
func (c *Client) MoneyInWithCardID(ctx context.Context, attrs Attributes) (Map, error) {
	return execute[Map](ctx, c, OpMoneyInWithCardID, attrs)
}

// SendPayment moves funds between two wallets.
func (c *Client) SendPayment(ctx context.Context, attrs Attributes) (Map, error) {
	return execute[Map](ctx, c, OpSendPayment, attrs)
}

// RegisterIBAN attaches an IBAN to a wallet and returns its status.
func (c *Client) RegisterIBAN(ctx context.Context, attrs Attributes) (string, error) {
	return execute[string](ctx, c, OpRegisterIBAN, attrs)
}

// MoneyOut transfers a wallet balance to its IBAN.
func (c *Client) MoneyOut(ctx context.Context, attrs Attributes) (Map, error) {
	return execute[Map](ctx, c, OpMoneyOut, attrs)
}

func (c *Client) GetPaymentDetails(ctx context.Context, attrs Attributes) ([]Map, error) {
	return execute[[]Map](ctx, c, OpGetPaymentDetails, attrs)
}

func (c *Client) GetMoneyInDetails(ctx context.Context, attrs Attributes) ([]Map, error) {
	return execute[[]Map](ctx, c, OpGetMoneyInDetails, attrs)
}

func (c *Client) GetMoneyOutDetails(ctx context.Context, attrs Attributes) ([]Map, error) {
	return execute[[]Map](ctx, c, OpGetMoneyOutDetails, attrs)
}

// NewWkToken returns a fresh request token for MoneyInWebInit, which
// accepts at most ten characters.
func NewWkToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
