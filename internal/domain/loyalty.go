package domain

import "time"

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// TierFor maps a point balance to its tier.
func TierFor(points int) Tier {
	switch {
	case points >= 500:
		return TierPlatinum
	case points >= 200:
		return TierGold
	case points >= 100:
		return TierSilver
	default:
		return TierBronze
	}
}

type RewardType string

const (
	RewardFreeDrink  RewardType = "free_drink"
	RewardFreePastry RewardType = "free_pastry"
)

type Reward struct {
	ID             string     `json:"id" firestore:"id"`
	Type           RewardType `json:"type" firestore:"type"`
	Description    string     `json:"description" firestore:"description"`
	PointsRequired int        `json:"pointsRequired" firestore:"pointsRequired"`
	Redeemed       bool       `json:"redeemed" firestore:"redeemed"`
	EarnedDate     time.Time  `json:"earnedDate" firestore:"earnedDate"`
	RedeemedDate   *time.Time `json:"redeemedDate,omitempty" firestore:"redeemedDate,omitempty"`
}

type Preferences struct {
	FavoriteDrink       string   `json:"favoriteDrink" firestore:"favoriteDrink"`
	PreferredMilk       string   `json:"preferredMilk" firestore:"preferredMilk"`
	PreferredSize       string   `json:"preferredSize" firestore:"preferredSize"`
	DietaryRestrictions []string `json:"dietaryRestrictions" firestore:"dietaryRestrictions"`
}

type LoyaltyCustomer struct {
	ID            string      `json:"id" firestore:"id"`
	Name          string      `json:"name" firestore:"name"`
	Email         string      `json:"email" firestore:"email"`
	Phone         string      `json:"phone" firestore:"phone"`
	LoyaltyPoints int         `json:"loyaltyPoints" firestore:"loyaltyPoints"`
	Tier          Tier        `json:"tier" firestore:"tier"`
	TotalSpent    float64     `json:"totalSpent" firestore:"totalSpent"`
	VisitCount    int         `json:"visitCount" firestore:"visitCount"`
	JoinDate      time.Time   `json:"joinDate" firestore:"joinDate"`
	LastVisit     time.Time   `json:"lastVisit" firestore:"lastVisit"`
	Preferences   Preferences `json:"preferences" firestore:"preferences"`
	Rewards       []Reward    `json:"rewards" firestore:"rewards"`
}

// HasOpenReward reports an unredeemed reward of the given type.
func (c LoyaltyCustomer) HasOpenReward(t RewardType) bool {
	for _, r := range c.Rewards {
		if r.Type == t && !r.Redeemed {
			return true
		}
	}
	return false
}

type TransactionType string

const (
	TxEarned     TransactionType = "earned"
	TxRedemption TransactionType = "redemption"
)

type LoyaltyTransaction struct {
	ID          string          `json:"id" firestore:"id"`
	CustomerID  string          `json:"customerId" firestore:"customerId"`
	Type        TransactionType `json:"type" firestore:"type"`
	Points      int             `json:"points" firestore:"points"`
	OrderID     string          `json:"orderId,omitempty" firestore:"orderId,omitempty"`
	RewardID    string          `json:"rewardId,omitempty" firestore:"rewardId,omitempty"`
	Description string          `json:"description" firestore:"description"`
	Timestamp   time.Time       `json:"timestamp" firestore:"timestamp"`
}
