package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/lemonway/internal/middleware"
	"github.com/congo-pay/lemonway/lemonway"
)

// Client is the part of *lemonway.Client the gateway drives.
type Client interface {
	Profile() lemonway.Profile
	Call(ctx context.Context, name string, attrs lemonway.Attributes) (any, error)
	RegisterWallet(ctx context.Context, attrs lemonway.Attributes) (string, error)
	GetWalletDetails(ctx context.Context, attrs lemonway.Attributes) (lemonway.Map, error)
	RegisterCard(ctx context.Context, attrs lemonway.Attributes) (string, error)
	UnregisterCard(ctx context.Context, attrs lemonway.Attributes) (string, error)
	MoneyIn(ctx context.Context, attrs lemonway.Attributes) (lemonway.Map, error)
	MoneyInWithCardID(ctx context.Context, attrs lemonway.Attributes) (lemonway.Map, error)
	MoneyOut(ctx context.Context, attrs lemonway.Attributes) (lemonway.Map, error)
	SendPayment(ctx context.Context, attrs lemonway.Attributes) (lemonway.Map, error)
	GetPaymentDetails(ctx context.Context, attrs lemonway.Attributes) ([]lemonway.Map, error)
}

// Handler exposes DirectKit operations as JSON endpoints.
type Handler struct {
	client Client
	logger *slog.Logger
}

// NewHandler constructs a gateway handler.
func NewHandler(client Client, logger *slog.Logger) *Handler {
	return &Handler{client: client, logger: logger}
}

type operationInfo struct {
	Name     string   `json:"name"`
	Method   string   `json:"method"`
	Required []string `json:"required"`
	Optional []string `json:"optional"`
}

// ListOperations describes the catalog of the configured profile.
func (h *Handler) ListOperations(c *fiber.Ctx) error {
	ops := h.client.Profile().Operations()
	out := make([]operationInfo, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationInfo{
			Name:     op.Name,
			Method:   op.Method,
			Required: nonNil(op.Required),
			Optional: nonNil(op.Optional),
		})
	}
	return c.JSON(fiber.Map{"profile": h.client.Profile().Name, "operations": out})
}

// CallOperation runs any catalog operation by name with the JSON body as attributes.
func (h *Handler) CallOperation(c *fiber.Ctx) error {
	name := c.Params("name")
	attrs, err := attributes(c)
	if err != nil {
		return err
	}
	c.Locals(middleware.LocalOperation, name)

	result, err := h.client.Call(c.UserContext(), name, attrs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"operation": name, "result": result})
}

// RegisterWallet creates a wallet.
func (h *Handler) RegisterWallet(c *fiber.Ctx) error {
	attrs, err := attributes(c)
	if err != nil {
		return err
	}
	c.Locals(middleware.LocalOperation, lemonway.OpRegisterWallet.Name)

	id, err := h.client.RegisterWallet(c.UserContext(), attrs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"wallet_id": id})
}

// GetWallet returns the details of the wallet in the path.
func (h *Handler) GetWallet(c *fiber.Ctx) error {
	c.Locals(middleware.LocalOperation, lemonway.OpGetWalletDetails.Name)

	wallet, err := h.client.GetWalletDetails(c.UserContext(), lemonway.Attributes{"wallet": c.Params("walletId")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"wallet": wallet})
}

// RegisterCard attaches a card to the wallet in the path.
func (h *Handler) RegisterCard(c *fiber.Ctx) error {
	attrs, err := walletAttributes(c)
	if err != nil {
		return err
	}
	c.Locals(middleware.LocalOperation, lemonway.OpRegisterCard.Name)

	id, err := h.client.RegisterCard(c.UserContext(), attrs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"card_id": id})
}

// UnregisterCard detaches the card in the path.
func (h *Handler) UnregisterCard(c *fiber.Ctx) error {
	c.Locals(middleware.LocalOperation, lemonway.OpUnregisterCard.Name)

	id, err := h.client.UnregisterCard(c.UserContext(), lemonway.Attributes{
		"wallet": c.Params("walletId"),
		"cardId": c.Params("cardId"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"card_id": id})
}

// MoneyIn credits the wallet in the path, from a registered card when
// card_id is given and from raw card data otherwise.
func (h *Handler) MoneyIn(c *fiber.Ctx) error {
	attrs, err := walletAttributes(c)
	if err != nil {
		return err
	}

	run := h.client.MoneyIn
	op := lemonway.OpMoneyIn
	if hasAny(attrs, "card_id", "cardId") {
		run = h.client.MoneyInWithCardID
		op = lemonway.OpMoneyInWithCardID
	}
	c.Locals(middleware.LocalOperation, op.Name)

	trans, err := run(c.UserContext(), attrs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"transaction": trans})
}

// MoneyOut transfers the balance of the wallet in the path to its IBAN.
func (h *Handler) MoneyOut(c *fiber.Ctx) error {
	attrs, err := walletAttributes(c)
	if err != nil {
		return err
	}
	c.Locals(middleware.LocalOperation, lemonway.OpMoneyOut.Name)

	trans, err := h.client.MoneyOut(c.UserContext(), attrs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"transaction": trans})
}

// SendPayment moves funds between two wallets.
func (h *Handler) SendPayment(c *fiber.Ctx) error {
	attrs, err := attributes(c)
	if err != nil {
		return err
	}
	c.Locals(middleware.LocalOperation, lemonway.OpSendPayment.Name)

	trans, err := h.client.SendPayment(c.UserContext(), attrs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"transaction": trans})
}

// GetPayment looks up a payment by transaction id; ?comment= narrows it.
func (h *Handler) GetPayment(c *fiber.Ctx) error {
	c.Locals(middleware.LocalOperation, lemonway.OpGetPaymentDetails.Name)

	trans, err := h.client.GetPaymentDetails(c.UserContext(), lemonway.Attributes{
		"transactionId":      c.Params("transactionId"),
		"transactionComment": c.Query("comment"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"transactions": trans})
}

// fail maps SDK errors onto HTTP responses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var (
		verr   *lemonway.ValidationError
		apiErr *lemonway.APIError
		terr   *lemonway.TransportError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error":      "invalid attributes",
			"missing":    nonNil(verr.Missing),
			"unexpected": nonNil(verr.Unexpected),
			"duplicate":  nonNil(verr.Duplicate),
			"invalid":    nonNil(verr.Invalid),
		})
	case errors.Is(err, lemonway.ErrUnknownOperation):
		return fiber.NewError(http.StatusNotFound, "unknown operation")
	case errors.As(err, &apiErr):
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{
			"error":    "lemonway rejected the request",
			"code":     apiErr.Code,
			"message":  apiErr.Message,
			"priority": apiErr.Priority,
		})
	case errors.As(err, &terr):
		h.logger.Warn("lemonway unreachable", slog.String("operation", terr.Operation), slog.Any("error", err))
		if terr.Timeout() {
			return fiber.NewError(http.StatusGatewayTimeout, "lemonway timed out")
		}
		return fiber.NewError(http.StatusBadGateway, "lemonway unavailable")
	case errors.Is(err, lemonway.ErrUnexpectedResponse):
		h.logger.Error("unexpected lemonway response", slog.Any("error", err))
		return fiber.NewError(http.StatusBadGateway, "unexpected lemonway response")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

// attributes decodes a body holding exactly one JSON object. Numbers keep
// their literal text; amounts become decimals.
func attributes(c *fiber.Ctx) (lemonway.Attributes, error) {
	attrs := lemonway.Attributes{}
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return attrs, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&attrs); err != nil || attrs == nil || dec.More() {
		return nil, fiber.NewError(http.StatusBadRequest, "body must be a JSON object")
	}
	if err := parseAmounts(attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

var amountKeys = map[string]struct{}{
	"amount":    {},
	"amountTot": {},
	"amountCom": {},
}

// parseAmounts turns amount attributes into decimals so they are sent with
// the two decimals DirectKit expects.
func parseAmounts(attrs lemonway.Attributes) error {
	for k, v := range attrs {
		if _, ok := amountKeys[lemonway.Camelize(k)]; !ok {
			continue
		}
		var raw string
		switch val := v.(type) {
		case json.Number:
			raw = val.String()
		case string:
			raw = val
		default:
			return fiber.NewError(http.StatusBadRequest, k+" must be a number")
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() || !amount.Equal(amount.Round(2)) {
			return fiber.NewError(http.StatusBadRequest, k+" must be a non-negative amount with at most two decimals")
		}
		attrs[k] = amount
	}
	return nil
}

func walletAttributes(c *fiber.Ctx) (lemonway.Attributes, error) {
	attrs, err := attributes(c)
	if err != nil {
		return nil, err
	}
	attrs["wallet"] = c.Params("walletId")
	return attrs, nil
}

func hasAny(attrs lemonway.Attributes, keys ...string) bool {
	for _, k := range keys {
		if _, ok := attrs[k]; ok {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
