package dto

import "cafesync/internal/domain"

type CreateCustomerRequest struct {
	Name        string             `json:"name" validate:"required"`
	Email       string             `json:"email" validate:"required,email"`
	Phone       string             `json:"phone"`
	Preferences domain.Preferences `json:"preferences"`
}

// PreferencesPatch merges into the stored preferences; nil fields are kept.
type PreferencesPatch struct {
	FavoriteDrink       *string   `json:"favoriteDrink,omitempty"`
	PreferredMilk       *string   `json:"preferredMilk,omitempty"`
	PreferredSize       *string   `json:"preferredSize,omitempty"`
	DietaryRestrictions *[]string `json:"dietaryRestrictions,omitempty"`
}

type UpdatePreferencesRequest struct {
	Preferences PreferencesPatch `json:"preferences"`
}

type AddPointsRequest struct {
	Points  int     `json:"points" validate:"gt=0"`
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	Reason  string  `json:"reason"`
}

type RedeemRequest struct {
	RewardID string `json:"rewardId" validate:"required"`
}

type CustomerDetail struct {
	domain.LoyaltyCustomer
	TransactionHistory []domain.LoyaltyTransaction `json:"transactionHistory"`
}

type Analytics struct {
	TotalCustomers           int                 `json:"totalCustomers"`
	ActiveCustomers          int                 `json:"activeCustomers"`
	TierBreakdown            map[domain.Tier]int `json:"tierBreakdown"`
	TotalPointsIssued        int                 `json:"totalPointsIssued"`
	TotalPointsRedeemed      int                 `json:"totalPointsRedeemed"`
	AveragePointsPerCustomer float64             `json:"averagePointsPerCustomer"`
	RedemptionRate           float64             `json:"redemptionRate"`
}
