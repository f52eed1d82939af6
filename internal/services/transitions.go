package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/alidoner/orderbot/internal/models"
	"github.com/alidoner/orderbot/internal/slots"
)

// numericPaymentChoices maps the numbered payment options message
var numericPaymentChoices = map[string]models.PaymentMethod{
	"1": models.PaymentKaspi,
	"2": models.PaymentCash,
	"3": models.PaymentOtherBank,
}

var paymentChoiceMethods = map[slots.PaymentChoice]models.PaymentMethod{
	slots.ChoiceKaspi:     models.PaymentKaspi,
	slots.ChoiceCash:      models.PaymentCash,
	slots.ChoiceOtherBank: models.PaymentOtherBank,
}

// transition applies the deterministic transition table for the current stage.
// It is the only place order state changes.
func (e *OrderEngine) transition(t *turn) {
	s := t.s

	if t.slots.Intent.Kind == slots.IntentClearCart {
		e.resetOrder(s)
		t.reply(t.p().cleared)
		return
	}

	if s.Stage == models.StageDone {
		if !e.cfg.RestartOnDone {
			t.reply(t.p().orderFinished)
			return
		}
		e.resetOrder(s)
	}

	switch s.Stage {
	case models.StageBrowsing:
		e.onBrowsing(t)
	case models.StageAwaitingAddress:
		e.onAddress(t)
	case models.StageAwaitingPhone:
		e.onPhone(t)
	case models.StageAwaitingPaymentMethod:
		e.onPaymentMethod(t)
	case models.StageAwaitingPaymentConfirmation:
		e.onPaymentConfirmation(t)
	default:
		// unknown stage, start over
		e.resetOrder(s)
		e.onBrowsing(t)
	}
}

func (e *OrderEngine) addItems(s *Session, items []slots.Item) {
	for _, item := range items {
		s.Cart.Add(item.Name, item.UnitPrice, item.Quantity)
	}
}

func isQuestion(text string) bool {
	return strings.Contains(text, "?")
}

func (e *OrderEngine) onBrowsing(t *turn) {
	s := t.s

	if t.slots.HasItems() {
		e.addItems(s, t.slots.Items)
		if t.slots.Intent.Kind == slots.IntentCheckout {
			t.reply(RenderCart(t.lang, s.Cart))
			e.beginCheckout(t)
			return
		}
		t.reply(RenderCart(t.lang, s.Cart) + "\n\n" + t.p().cartFooter)
		return
	}

	switch t.slots.Intent.Kind {
	case slots.IntentCheckout:
		if s.Cart.IsEmpty() {
			t.reply(t.p().cartEmpty)
			return
		}
		e.beginCheckout(t)
	case slots.IntentShowCart:
		if s.Cart.IsEmpty() {
			t.reply(t.p().cartEmpty)
			return
		}
		t.reply(RenderCart(t.lang, s.Cart) + "\n\n" + t.p().cartFooter)
	default:
		t.reply(e.consult(t))
	}
}

// beginCheckout enters awaiting_address. The cart must not be empty.
func (e *OrderEngine) beginCheckout(t *turn) {
	s := t.s
	if s.Cart.IsEmpty() {
		t.reply(t.p().cartEmpty)
		return
	}
	if s.OrderID == "" {
		s.OrderID = e.cfg.NewOrderID()
	}
	e.setStage(s, models.StageAwaitingAddress)
	t.reply(t.p().askAddress)
}

// holdStage answers a message that did not satisfy the current stage:
// cart requests and added items are honoured, questions go to the AI,
// anything else gets the stage's format hint. The stage never changes.
func (e *OrderEngine) holdStage(t *turn, prompt, hint string) {
	s := t.s
	switch {
	case t.slots.Intent.Kind == slots.IntentShowCart:
		t.reply(RenderCart(t.lang, s.Cart) + "\n\n" + prompt)
	case t.slots.HasItems():
		e.addItems(s, t.slots.Items)
		t.reply(RenderCart(t.lang, s.Cart) + "\n\n" + prompt)
	case isQuestion(t.text):
		t.reply(e.consult(t) + "\n\n" + prompt)
	default:
		t.reply(hint)
	}
}

func (e *OrderEngine) onAddress(t *turn) {
	s := t.s
	if t.slots.LooksLikeAddress {
		s.Address = t.text
		e.setStage(s, models.StageAwaitingPhone)
		t.reply(t.p().askPhone)
		return
	}
	e.holdStage(t, t.p().askAddress, t.p().badAddress)
}

func (e *OrderEngine) onPhone(t *turn) {
	s := t.s
	if t.slots.LooksLikePhone {
		s.Phone = t.slots.Phone
		e.setStage(s, models.StageAwaitingPaymentMethod)
		t.reply(RenderReceipt(t.lang, s, e.cfg.DeliveryFee) + "\n\n" + t.p().paymentOptions)
		return
	}
	e.holdStage(t, t.p().askPhone, t.p().badPhone)
}

func (e *OrderEngine) paymentChoice(t *turn) models.PaymentMethod {
	if t.slots.Intent.Kind == slots.IntentPaymentChoice {
		return paymentChoiceMethods[t.slots.Intent.Payment]
	}
	return numericPaymentChoices[strings.Trim(t.text, " .)")]
}

func (e *OrderEngine) onPaymentMethod(t *turn) {
	s := t.s

	switch method := e.paymentChoice(t); {
	case method.IsAsync():
		e.requestPayment(t, method)
	case method == models.PaymentCash:
		e.acceptCash(t)
	case t.slots.HasItems() || t.slots.Intent.Kind == slots.IntentShowCart:
		e.addItems(s, t.slots.Items)
		t.reply(RenderReceipt(t.lang, s, e.cfg.DeliveryFee) + "\n\n" + t.p().paymentOptions)
	case isQuestion(t.text):
		t.reply(e.consult(t) + "\n\n" + t.p().paymentOptions)
	default:
		t.reply(t.p().paymentOptions)
	}
}

// requestPayment issues a payment link for Kaspi or another bank.
// On failure the session stays in awaiting_payment_method.
func (e *OrderEngine) requestPayment(t *turn, method models.PaymentMethod) {
	s := t.s
	amount := s.Cart.Total() + e.cfg.DeliveryFee

	link, err := e.cfg.Payments.CreateLink(t.ctx, amount)
	if err != nil {
		e.cfg.Metrics.UpstreamError(UpstreamPayment)
		log.Printf("❌ Payment link for %s (%d₸) failed: %v", s.CustomerID, amount, err)
		t.reply(t.p().linkFailed)
		return
	}

	s.PaymentMethod = method
	s.PaymentLink = link
	s.Reminded = false
	e.setStage(s, models.StageAwaitingPaymentConfirmation)

	t.reply(fmt.Sprintf(t.p().paymentLink, s.OrderID, link))
	t.ops = append(t.ops, outbound{
		to:   e.cfg.OperatorID,
		text: operatorMessage("📦 *НОВЫЙ ЗАКАЗ* (ожидает оплату)", s, e.cfg.DeliveryFee),
	})
	e.recordOrder(t.ctx, s, models.OrderStatusAwaitingPayment)
}

func (e *OrderEngine) acceptCash(t *turn) {
	s := t.s
	s.PaymentMethod = models.PaymentCash

	t.reply(RenderReceipt(t.lang, s, e.cfg.DeliveryFee) + "\n\n" + t.p().cashAccepted)
	t.ops = append(t.ops, outbound{
		to:   e.cfg.OperatorID,
		text: operatorMessage("📦 *НОВЫЙ ЗАКАЗ*", s, e.cfg.DeliveryFee),
	})
	e.recordOrder(t.ctx, s, models.OrderStatusAccepted)

	s.Cart.Clear()
	e.setStage(s, models.StageDone)
}

func (e *OrderEngine) onPaymentConfirmation(t *turn) {
	s := t.s

	switch t.slots.Intent.Kind {
	case slots.IntentConfirmPayment:
		t.reply(fmt.Sprintf(t.p().paymentDone, s.OrderID))
		t.ops = append(t.ops, outbound{
			to:   e.cfg.OperatorID,
			text: operatorMessage("✅ *КЛИЕНТ СООБЩИЛ ОБ ОПЛАТЕ*", s, e.cfg.DeliveryFee),
		})
		e.recordOrder(t.ctx, s, models.OrderStatusPaid)

		s.Cart.Clear()
		e.setStage(s, models.StageDone)
	case slots.IntentShowCart:
		t.reply(RenderReceipt(t.lang, s, e.cfg.DeliveryFee) + "\n\n" + fmt.Sprintf(t.p().paymentPending, s.OrderID))
	default:
		t.reply(e.consult(t) + "\n\n" + fmt.Sprintf(t.p().paymentPending, s.OrderID))
	}
}
