package service

import (
	"context"
	"time"

	"cafesync/internal/domain"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (ls *LoyaltyService) Seed(ctx context.Context) error {
	customers := []domain.LoyaltyCustomer{
		{
			ID: "customer-1", Name: "John Smith", Email: "john.smith@email.com", Phone: "+1234567890",
			LoyaltyPoints: 150, Tier: domain.TierFor(150), TotalSpent: 450.75, VisitCount: 25,
			JoinDate: mustTime("2023-06-15T00:00:00Z"), LastVisit: mustTime("2024-01-20T14:30:00Z"),
			Preferences: domain.Preferences{
				FavoriteDrink: "Latte", PreferredMilk: "Oat Milk", PreferredSize: "Large",
				DietaryRestrictions: []string{"Lactose Intolerant"},
			},
			Rewards: []domain.Reward{{
				ID: "reward-1", Type: domain.RewardFreeDrink, Description: "Free Medium Drink",
				PointsRequired: 100, EarnedDate: mustTime("2024-01-15T00:00:00Z"),
			}},
		},
		{
			ID: "customer-2", Name: "Sarah Johnson", Email: "sarah.j@email.com", Phone: "+1987654321",
			LoyaltyPoints: 75, Tier: domain.TierFor(75), TotalSpent: 225.50, VisitCount: 15,
			JoinDate: mustTime("2023-09-10T00:00:00Z"), LastVisit: mustTime("2024-01-19T09:15:00Z"),
			Preferences: domain.Preferences{
				FavoriteDrink: "Cappuccino", PreferredMilk: "Almond Milk", PreferredSize: "Medium",
				DietaryRestrictions: []string{},
			},
			Rewards: []domain.Reward{},
		},
	}
	txs := []domain.LoyaltyTransaction{
		{
			ID: "transaction-1", CustomerID: "customer-1", Type: domain.TxEarned, Points: 15,
			Description: "Points earned from purchase", Timestamp: mustTime("2024-01-20T14:30:00Z"),
		},
		{
			ID: "transaction-2", CustomerID: "customer-1", Type: domain.TxRedemption, Points: -100,
			Description: "Redeemed free drink reward", Timestamp: mustTime("2024-01-15T10:00:00Z"),
		},
	}
	return ls.db.Seed(ctx, customers, txs)
}
