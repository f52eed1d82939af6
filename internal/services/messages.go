package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alidoner/orderbot/internal/models"
)

// Lang is the language replies are written in
type Lang string

// Supported languages
const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
)

// DetectLang picks the language of text by its letters, keeping prev when
// the text has none ("1", "87771234567").
func DetectLang(text string, prev Lang) Lang {
	var cyrillic, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	switch {
	case cyrillic > 0 && cyrillic >= latin:
		return LangRU
	case latin > 0:
		return LangEN
	case prev != "":
		return prev
	}
	return LangRU
}

type phrasebook struct {
	cartHeader      string
	cartTotal       string
	cartEmpty       string
	cartFooter      string
	askAddress      string
	badAddress      string
	askPhone        string
	badPhone        string
	receiptHeader   string
	delivery        string
	total           string
	address         string
	phone           string
	order           string
	paymentOptions  string
	paymentLink     string
	linkFailed      string
	cashAccepted    string
	paymentPending  string
	paymentDone     string
	paymentReminder string
	cleared         string
	orderFinished   string
	apology         string
}

var phrasebooks = map[Lang]phrasebook{
	LangRU: {
		cartHeader:      "🛒 *Ваша корзина:*",
		cartTotal:       "💰 Сумма: %d₸",
		cartEmpty:       "🛒 Ваша корзина пуста. Напишите, что хотите заказать.",
		cartFooter:      "Хотите что-то еще или оформляем заказ?",
		askAddress:      "📍 Укажите адрес доставки (микрорайон, дом, квартира):",
		badAddress:      "📍 Не получилось распознать адрес. Пример: *12 мкр, дом 47, кв 72*",
		askPhone:        "📞 Укажите номер телефона для связи:",
		badPhone:        "📞 Номер должен содержать 11 цифр. Пример: *87771234567*",
		receiptHeader:   "🧾 *ВАШ ЗАКАЗ:*",
		delivery:        "🚚 Доставка: %d₸",
		total:           "💰 *Итого: %d₸*",
		address:         "🏠 Адрес: %s",
		phone:           "📞 Телефон: %s",
		order:           "🔖 Заказ: %s",
		paymentOptions:  "💳 Выберите способ оплаты:\n1. Kaspi\n2. Наличные\n3. Другой банк",
		paymentLink:     "💳 Оплатите заказ %s по ссылке:\n%s\n\nПосле оплаты напишите *оплатил*.",
		linkFailed:      "😔 Не удалось создать ссылку на оплату. Попробуйте еще раз или выберите наличные.",
		cashAccepted:    "✅ *Заказ принят!* Оплата наличными курьеру. ⏰ Доставка 25–35 мин.",
		paymentPending:  "⏳ Ждем оплату заказа %s. После оплаты напишите *оплатил*.",
		paymentDone:     "✅ Оплата получена, заказ %s принят! ⏰ Доставка 25–35 мин.",
		paymentReminder: "⏰ Напоминаем об оплате заказа %s:\n%s\n\nПосле оплаты напишите *оплатил*.",
		cleared:         "🧺 Корзина очищена. Что добавим?",
		orderFinished:   "✅ Ваш заказ уже оформлен. Напишите *новый заказ*, чтобы заказать еще.",
		apology:         "😔 Извините, сейчас не могу ответить. Попробуйте позже или напишите, что хотите заказать.",
	},
	LangEN: {
		cartHeader:      "🛒 *Your cart:*",
		cartTotal:       "💰 Subtotal: %d₸",
		cartEmpty:       "🛒 Your cart is empty. Tell us what you would like to order.",
		cartFooter:      "Anything else, or shall we check out?",
		askAddress:      "📍 Please send the delivery address (district, house, apartment):",
		badAddress:      "📍 We could not read the address. Example: *12 block 47 house 72 apt*",
		askPhone:        "📞 Please send a contact phone number:",
		badPhone:        "📞 The number must have 11 digits. Example: *87771234567*",
		receiptHeader:   "🧾 *YOUR ORDER:*",
		delivery:        "🚚 Delivery: %d₸",
		total:           "💰 *Total: %d₸*",
		address:         "🏠 Address: %s",
		phone:           "📞 Phone: %s",
		order:           "🔖 Order: %s",
		paymentOptions:  "💳 Choose a payment method:\n1. Kaspi\n2. Cash\n3. Other bank",
		paymentLink:     "💳 Pay for order %s here:\n%s\n\nWhen done, reply *paid*.",
		linkFailed:      "😔 We could not create a payment link. Please try again or choose cash.",
		cashAccepted:    "✅ *Order accepted!* Pay the courier in cash. ⏰ Delivery in 25–35 min.",
		paymentPending:  "⏳ Waiting for payment of order %s. When done, reply *paid*.",
		paymentDone:     "✅ Payment received, order %s accepted! ⏰ Delivery in 25–35 min.",
		paymentReminder: "⏰ A reminder to pay for order %s:\n%s\n\nWhen done, reply *paid*.",
		cleared:         "🧺 Cart cleared. What shall we add?",
		orderFinished:   "✅ Your order is already placed. Reply *new order* to order again.",
		apology:         "😔 Sorry, I can't answer right now. Please try later or tell us what you would like to order.",
	},
}

func phrases(lang Lang) phrasebook {
	if p, ok := phrasebooks[lang]; ok {
		return p
	}
	return phrasebooks[LangRU]
}

func renderLines(cart models.Cart) string {
	lines := make([]string, 0, len(cart.Lines))
	for i, line := range cart.Lines {
		lines = append(lines, fmt.Sprintf("%d. %s x%d = %d₸", i+1, line.ItemName, line.Quantity, line.Subtotal()))
	}
	return strings.Join(lines, "\n")
}

// RenderCart formats the cart with its subtotal
func RenderCart(lang Lang, cart models.Cart) string {
	p := phrases(lang)
	if cart.IsEmpty() {
		return p.cartEmpty
	}
	return fmt.Sprintf("%s\n\n%s\n\n"+p.cartTotal, p.cartHeader, renderLines(cart), cart.Total())
}

// RenderReceipt formats the full order: lines, delivery, total and contacts
func RenderReceipt(lang Lang, s *Session, deliveryFee int64) string {
	p := phrases(lang)

	var b strings.Builder
	b.WriteString(p.receiptHeader)
	b.WriteString("\n\n")
	b.WriteString(renderLines(s.Cart))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, p.delivery+"\n", deliveryFee)
	fmt.Fprintf(&b, p.total, s.Cart.Total()+deliveryFee)
	if s.Address != "" {
		fmt.Fprintf(&b, "\n"+p.address, s.Address)
	}
	if s.Phone != "" {
		fmt.Fprintf(&b, "\n"+p.phone, s.Phone)
	}
	if s.OrderID != "" {
		fmt.Fprintf(&b, "\n"+p.order, s.OrderID)
	}
	return b.String()
}

var paymentMethodNames = map[models.PaymentMethod]string{
	models.PaymentKaspi:     "Kaspi",
	models.PaymentCash:      "Наличные",
	models.PaymentOtherBank: "Другой банк",
}

// operatorMessage is always Russian; the operator works in one language
func operatorMessage(headline string, s *Session, deliveryFee int64) string {
	var b strings.Builder
	b.WriteString(headline)
	fmt.Fprintf(&b, "\nОт: %s\n\n", s.CustomerID)
	b.WriteString(RenderReceipt(LangRU, s, deliveryFee))
	if name, ok := paymentMethodNames[s.PaymentMethod]; ok {
		fmt.Fprintf(&b, "\n💳 Оплата: %s", name)
	}
	if s.PaymentLink != "" {
		fmt.Fprintf(&b, "\n🔗 %s", s.PaymentLink)
	}
	return b.String()
}
