package dto

import "cafesync/internal/domain"

type CreateOrderRequest struct {
	Customer            string             `json:"customer" validate:"required"`
	Items               []domain.OrderItem `json:"items" validate:"required,min=1,dive"`
	Station             string             `json:"station"`
	PaymentMethod       string             `json:"paymentMethod"`
	StaffID             string             `json:"staffId"`
	SpecialInstructions string             `json:"specialInstructions"`
}

type UpdateStatusRequest struct {
	Status    domain.OrderStatus `json:"status" validate:"required,order_status"`
	UpdatedBy string             `json:"updatedBy"`
}

type AddItemsRequest struct {
	Items []domain.OrderItem `json:"items" validate:"dive"`
}
