package payments

import "context"

// CheckoutRequest описывает покупку пакета слот-монет.
type CheckoutRequest struct {
	Reference   string `json:"reference"`
	UserID      int    `json:"user_id"`
	ConfigID    int    `json:"config_id"`
	SlotCount   int    `json:"slot_count"`
	AmountCents int    `json:"amount_cents"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

// CheckoutClient создаёт сессию оплаты у внешнего шлюза и возвращает
// URL для редиректа пользователя.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
}
