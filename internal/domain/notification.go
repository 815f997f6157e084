package domain

import "time"

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// MaxNotifications bounds the stored notification log.
const MaxNotifications = 100

type Notification struct {
	ID        string           `json:"id" firestore:"id"`
	Type      NotificationType `json:"type" firestore:"type"`
	Title     string           `json:"title" firestore:"title"`
	Message   string           `json:"message" firestore:"message"`
	OrderID   string           `json:"orderId,omitempty" firestore:"orderId,omitempty"`
	Timestamp time.Time        `json:"timestamp" firestore:"timestamp"`
	Read      bool             `json:"read" firestore:"read"`
}
