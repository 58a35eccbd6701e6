package models

import "time"

// ─── Enums ────────────────────────────────────────────────────────────────────

// OrderStatus is the fulfilment state of a print order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	MethodGCash     PaymentMethod = "gcash"
	MethodPayOnShop PaymentMethod = "pay_on_shop"
)

// ─── Transition table ─────────────────────────────────────────────────────────

// legalTransitions maps each status to the set of statuses it may move to.
// completed and cancelled are terminal.
var legalTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusReady, StatusCompleted, StatusCancelled},
	StatusReady:      {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// ─── Order document ───────────────────────────────────────────────────────────

// Document is one uploaded file attached to an order, stored inline as a
// base64 data URL.
type Document struct {
	DocumentID string    `bson:"documentId" json:"documentId"`
	FileName   string    `bson:"fileName" json:"fileName"`
	FileSize   int64     `bson:"fileSize" json:"fileSize"`
	FileData   string    `bson:"fileData" json:"fileData"` // data:<mime>;base64,<payload>
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// PrintOptions are the customer's print configuration for the whole order.
type PrintOptions struct {
	PaperSize      string     `bson:"paperSize" json:"paperSize"`   // A4 | Letter | Legal | A3
	ColorMode      string     `bson:"colorMode" json:"colorMode"`   // bw | color
	PaperType      string     `bson:"paperType" json:"paperType"`   // bond | glossy | matte
	Copies         int        `bson:"copies" json:"copies"`         // >= 1
	Pages          int        `bson:"pages" json:"pages"`           // >= 1
	Orientation    string     `bson:"orientation,omitempty" json:"orientation,omitempty"`
	PickupDateTime *time.Time `bson:"pickupDateTime,omitempty" json:"pickupDateTime,omitempty"`
	Note           string     `bson:"note,omitempty" json:"note,omitempty"`
}

// Payment holds the payment state and proof for an order.
type Payment struct {
	Method      PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	Amount      float64       `bson:"amount" json:"amount"`
	Status      PaymentStatus `bson:"status" json:"status"`
	ReferenceNo string        `bson:"referenceNo,omitempty" json:"referenceNo,omitempty"`
	ReceiptURL  string        `bson:"receiptUrl,omitempty" json:"receiptUrl,omitempty"`
}

// StatusEntry is one line of an order's audit trail.
type StatusEntry struct {
	Status    string    `bson:"status" json:"status"`
	UpdatedBy string    `bson:"updatedBy" json:"updatedBy"`
	Remarks   string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Order is a customer print order.
//
// Version implements optimistic concurrency: every update carries the version
// it read, and the store rejects the write if the stored version moved.
type Order struct {
	ID            string        `bson:"_id" json:"orderId"`
	UserID        string        `bson:"userId" json:"userId"` // "guest" for anonymous orders
	CustomerName  string        `bson:"customerName" json:"customerName"`
	CustomerEmail string        `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone string        `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Status        OrderStatus   `bson:"status" json:"status"`
	Documents     []Document    `bson:"documents" json:"documents"`
	PrintOptions  PrintOptions  `bson:"printOptions" json:"printOptions"`
	Payment       Payment       `bson:"payment" json:"payment"`
	TotalAmount   float64       `bson:"totalAmount" json:"totalAmount"`
	StatusHistory []StatusEntry `bson:"statusHistory" json:"statusHistory"`
	Version       int64         `bson:"version" json:"version"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// CollectionOrders is the MongoDB collection name for orders.
const CollectionOrders = "orders"
