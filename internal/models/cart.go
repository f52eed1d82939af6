package models

// Stage is the position of a customer's session in the order lifecycle
type Stage string

// Stage constants
const (
	StageBrowsing                    Stage = "browsing"
	StageAwaitingAddress             Stage = "awaiting_address"
	StageAwaitingPhone               Stage = "awaiting_phone"
	StageAwaitingPaymentMethod       Stage = "awaiting_payment_method"
	StageAwaitingPaymentConfirmation Stage = "awaiting_payment_confirmation"
	StageDone                        Stage = "done"
)

// IsCheckout reports whether the stage belongs to the checkout part of the lifecycle
func (s Stage) IsCheckout() bool {
	switch s {
	case StageAwaitingAddress, StageAwaitingPhone, StageAwaitingPaymentMethod, StageAwaitingPaymentConfirmation:
		return true
	}
	return false
}

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

// PaymentMethod constants
const (
	PaymentUnset     PaymentMethod = ""
	PaymentKaspi     PaymentMethod = "kaspi"
	PaymentCash      PaymentMethod = "cash"
	PaymentOtherBank PaymentMethod = "other_bank"
)

// IsAsync reports whether the method needs an external payment confirmation
func (p PaymentMethod) IsAsync() bool {
	return p == PaymentKaspi || p == PaymentOtherBank
}

// CartLine is one menu item in a cart
type CartLine struct {
	ItemName  string `json:"item_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns price times quantity
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart keeps lines in insertion order, one line per item name.
// Quantities are always at least 1.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add merges quantity into the existing line for itemName or appends a new line.
// Quantities below 1 are treated as 1.
func (c *Cart) Add(itemName string, unitPrice int64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ItemName == itemName {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ItemName:  itemName,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	})
}

// Total returns the sum of all line subtotals
func (c Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clear removes every line
func (c *Cart) Clear() {
	c.Lines = nil
}

// Clone returns a copy that shares no memory with c
func (c Cart) Clone() Cart {
	if c.Lines == nil {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Turn is one exchanged chat message kept as AI context
type Turn struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
