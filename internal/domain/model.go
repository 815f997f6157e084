package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the five known statuses. Transitions between
// them are not checked anywhere.
func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Closed orders no longer accept new items.
func (s OrderStatus) Closed() bool { return s == StatusCompleted || s == StatusCancelled }

// ParseStatuses splits "pending,preparing" into statuses, dropping blanks.
func ParseStatuses(csv string) []OrderStatus {
	var out []OrderStatus
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, OrderStatus(p))
		}
	}
	return out
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

const (
	StationFrontCounter = "front-counter"
	StationKitchen      = "kitchen"
	StationManagement   = "management"

	CustomerTakeout = "Takeout"
)

// ItemRef is a line item id. The client sends numeric menu ids, older
// payloads send strings, both are kept as text.
type ItemRef string

func (r *ItemRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ItemRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = ItemRef(n.String())
	return nil
}

// MenuID returns the numeric menu id behind the reference, if any.
func (r ItemRef) MenuID() (int, bool) {
	n, err := strconv.Atoi(string(r))
	return n, err == nil
}

type Customizations struct {
	Size   string   `json:"size,omitempty" firestore:"size,omitempty"`
	Milk   string   `json:"milk,omitempty" firestore:"milk,omitempty"`
	Extras []string `json:"extras,omitempty" firestore:"extras,omitempty"`
	Notes  string   `json:"notes,omitempty" firestore:"notes,omitempty"`
}

type OrderItem struct {
	ID             ItemRef         `json:"id" firestore:"id"`
	Name           string          `json:"name" firestore:"name" validate:"required"`
	Quantity       int             `json:"quantity" firestore:"quantity" validate:"gte=1"`
	BasePrice      *float64        `json:"basePrice,omitempty" firestore:"basePrice,omitempty"`
	UnitPrice      *float64        `json:"unitPrice,omitempty" firestore:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	Price          float64         `json:"price" firestore:"price" validate:"gte=0"`
	Category       string          `json:"category,omitempty" firestore:"category,omitempty"`
	Customizations *Customizations `json:"customizations,omitempty" firestore:"customizations,omitempty"`
	Modifiers      []string        `json:"modifiers,omitempty" firestore:"modifiers,omitempty"`
}

// EffectivePrice is unitPrice when present, price otherwise.
func (i OrderItem) EffectivePrice() float64 {
	if i.UnitPrice != nil {
		return *i.UnitPrice
	}
	return i.Price
}

// Complex items (specialty drinks, extras, modifiers) take longer to prepare.
func (i OrderItem) Complex() bool {
	if strings.EqualFold(i.Category, "specialty") || len(i.Modifiers) > 0 {
		return true
	}
	return i.Customizations != nil && len(i.Customizations.Extras) > 0
}

type Order struct {
	ID                  string      `json:"id" firestore:"id"`
	OrderNumber         int64       `json:"orderNumber" firestore:"orderNumber"`
	Customer            string      `json:"customer" firestore:"customer"`
	Items               []OrderItem `json:"items" firestore:"items"`
	Station             string      `json:"station" firestore:"station"`
	Status              OrderStatus `json:"status" firestore:"status"`
	TotalAmount         float64     `json:"totalAmount" firestore:"totalAmount"`
	EstimatedPrepTime   int         `json:"estimatedPrepTime" firestore:"estimatedPrepTime"`
	Priority            Priority    `json:"priority" firestore:"priority"`
	PaymentMethod       string      `json:"paymentMethod" firestore:"paymentMethod"`
	StaffID             string      `json:"staffId,omitempty" firestore:"staffId"`
	SpecialInstructions string      `json:"specialInstructions,omitempty" firestore:"specialInstructions"`
	CreatedAt           time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt" firestore:"updatedAt"`
	CompletedAt         *time.Time  `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
}

type OrderStatusChange struct {
	ID        string      `json:"id" firestore:"id"`
	OrderID   string      `json:"orderId" firestore:"orderId"`
	Status    OrderStatus `json:"status" firestore:"status"`
	UpdatedBy string      `json:"updatedBy" firestore:"updatedBy"`
	Timestamp time.Time   `json:"timestamp" firestore:"timestamp"`
}

type OrderFilter struct {
	Statuses []OrderStatus
	Station  string
	Limit    int
	Offset   int
}

// Matches applies the status and station parts of the filter.
func (f OrderFilter) Matches(o Order) bool {
	if f.Station != "" && o.Station != f.Station {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// AnalysisData is derived once, when the order completes.
type AnalysisData struct {
	TotalPrepTime float64 `json:"totalPrepTime" firestore:"totalPrepTime"`
	OrderValue    float64 `json:"orderValue" firestore:"orderValue"`
	ItemCount     int     `json:"itemCount" firestore:"itemCount"`
	CustomerType  string  `json:"customerType" firestore:"customerType"`
	PaymentMethod string  `json:"paymentMethod" firestore:"paymentMethod"`
	StaffID       string  `json:"staffId" firestore:"staffId"`
}

type CompletedOrder struct {
	Order
	AnalysisData AnalysisData `json:"analysisData" firestore:"analysisData"`
	SnapshotAt   time.Time    `json:"snapshotAt" firestore:"snapshotAt"`
}

// NewCompletedOrder builds the snapshot for an order that has CompletedAt set.
func NewCompletedOrder(o Order) CompletedOrder {
	completed := o.UpdatedAt
	if o.CompletedAt != nil {
		completed = *o.CompletedAt
	}
	customerType := "dine-in"
	if o.Customer == CustomerTakeout {
		customerType = "takeout"
	}
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return CompletedOrder{
		Order: o,
		AnalysisData: AnalysisData{
			TotalPrepTime: completed.Sub(o.CreatedAt).Minutes(),
			OrderValue:    o.TotalAmount,
			ItemCount:     len(o.Items),
			CustomerType:  customerType,
			PaymentMethod: o.PaymentMethod,
			StaffID:       o.StaffID,
		},
		SnapshotAt: time.Now().UTC(),
	}
}
