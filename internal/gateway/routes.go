package gateway

import "github.com/gofiber/fiber/v2"

// Register mounts the gateway endpoints on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/operations", h.ListOperations)
	r.Post("/operations/:name", h.CallOperation)

	r.Post("/wallets", h.RegisterWallet)
	r.Get("/wallets/:walletId", h.GetWallet)
	r.Post("/wallets/:walletId/cards", h.RegisterCard)
	r.Delete("/wallets/:walletId/cards/:cardId", h.UnregisterCard)
	r.Post("/wallets/:walletId/money-in", h.MoneyIn)
	r.Post("/wallets/:walletId/money-out", h.MoneyOut)

	r.Post("/payments", h.SendPayment)
	r.Get("/payments/:transactionId", h.GetPayment)
}
