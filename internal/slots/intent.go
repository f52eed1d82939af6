package slots

import "strings"

// IntentKind is the customer's recognized command
type IntentKind string

// IntentKind constants, listed in match priority order
const (
	IntentClearCart      IntentKind = "clear_cart"
	IntentConfirmPayment IntentKind = "confirm_payment"
	IntentPaymentChoice  IntentKind = "payment_choice"
	IntentCheckout       IntentKind = "checkout"
	IntentShowCart       IntentKind = "show_cart"
	IntentNone           IntentKind = "none"
)

// PaymentChoice is the method named in a payment_choice intent
type PaymentChoice string

// PaymentChoice constants
const (
	ChoiceNone      PaymentChoice = ""
	ChoiceKaspi     PaymentChoice = "kaspi"
	ChoiceCash      PaymentChoice = "cash"
	ChoiceOtherBank PaymentChoice = "other_bank"
)

// Intent is the outcome of keyword matching
type Intent struct {
	Kind    IntentKind
	Payment PaymentChoice
}

var (
	clearKeywords    = []string{"очист", "новый заказ", "сброс", "отмен", "clear", "new order", "reset", "cancel"}
	confirmKeywords  = []string{"оплатил", "оплачено", "перевел", "перевёл", "paid"}
	checkoutKeywords = []string{"оформ", "готов", "заказываю", "checkout", "check out", "place order", "order now"}
	showCartKeywords = []string{"корзин", "мой заказ", "cart", "my order"}

	paymentKeywords = []struct {
		choice   PaymentChoice
		keywords []string
	}{
		{ChoiceKaspi, []string{"kaspi", "каспи"}},
		{ChoiceCash, []string{"налич", "cash"}},
		{ChoiceOtherBank, []string{"другой банк", "другим банк", "halyk", "халык", "bank", "банк"}},
	}
)

// DetectIntent matches keywords case-insensitively. The first satisfied intent
// wins in the fixed order clear_cart > confirm_payment > payment_choice >
// checkout > show_cart.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(text)

	if containsAny(lower, clearKeywords) {
		return Intent{Kind: IntentClearCart}
	}
	if containsAny(lower, confirmKeywords) {
		return Intent{Kind: IntentConfirmPayment}
	}
	if choice := paymentChoiceOf(lower); choice != ChoiceNone {
		return Intent{Kind: IntentPaymentChoice, Payment: choice}
	}
	if containsAny(lower, checkoutKeywords) {
		return Intent{Kind: IntentCheckout}
	}
	if containsAny(lower, showCartKeywords) {
		return Intent{Kind: IntentShowCart}
	}
	return Intent{Kind: IntentNone}
}

func paymentChoiceOf(lower string) PaymentChoice {
	for _, p := range paymentKeywords {
		if containsAny(lower, p.keywords) {
			return p.choice
		}
	}
	return ChoiceNone
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
