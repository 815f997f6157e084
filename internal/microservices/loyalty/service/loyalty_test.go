package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/loyalty/domain/dto"
	"cafesync/internal/microservices/loyalty/repository"
)

func newService(t *testing.T) *LoyaltyService {
	t.Helper()
	svc := NewLoyaltyService(repository.NewMemory())
	clock := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestCreateCustomer(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Mia"})
	assert.EqualError(t, err, "Name and email are required")

	c, err := svc.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Mia", Email: "Mia@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.TierBronze, c.Tier)
	assert.Equal(t, 0, c.LoyaltyPoints)
	assert.Equal(t, "mia@example.com", c.Email)

	_, err = svc.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Mia 2", Email: "mia@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Customer with this email already exists")
}

func TestPointsRewardsAndRedeem(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c, err := svc.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Leo", Email: "leo@example.com"})
	require.NoError(t, err)

	_, _, err = svc.AddPoints(ctx, c.ID, dto.AddPointsRequest{Points: 0})
	assert.EqualError(t, err, "Valid points amount is required")
	_, _, err = svc.AddPoints(ctx, "missing", dto.AddPointsRequest{Points: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, rewards, err := svc.AddPoints(ctx, c.ID, dto.AddPointsRequest{Points: 120, Amount: 12.5, OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.TierSilver, c.Tier)
	assert.Equal(t, 1, c.VisitCount)
	assert.Equal(t, 12.5, c.TotalSpent)
	require.Len(t, rewards, 1)
	assert.Equal(t, domain.RewardFreeDrink, rewards[0].Type)
	drink := rewards[0].ID

	c, rewards, err = svc.AddPoints(ctx, c.ID, dto.AddPointsRequest{Points: 40, Amount: 4.25})
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, domain.RewardFreePastry, rewards[0].Type)
	assert.Len(t, c.Rewards, 2)
	assert.Equal(t, 16.75, c.TotalSpent)
	pastry := rewards[0].ID

	c, err = svc.Redeem(ctx, c.ID, dto.RedeemRequest{RewardID: drink})
	require.NoError(t, err)
	assert.Equal(t, 60, c.LoyaltyPoints)

	_, err = svc.Redeem(ctx, c.ID, dto.RedeemRequest{RewardID: drink})
	assert.EqualError(t, err, "Reward already redeemed")
	_, err = svc.Redeem(ctx, c.ID, dto.RedeemRequest{RewardID: pastry})
	assert.EqualError(t, err, "Insufficient points for this reward")
	_, err = svc.Redeem(ctx, c.ID, dto.RedeemRequest{RewardID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	detail, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, detail.TransactionHistory, 3)
	assert.Equal(t, domain.TxRedemption, detail.TransactionHistory[0].Type)
	assert.Equal(t, -100, detail.TransactionHistory[0].Points)

	a, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalCustomers)
	assert.Equal(t, 1, a.ActiveCustomers)
	assert.Equal(t, 160, a.TotalPointsIssued)
	assert.Equal(t, 100, a.TotalPointsRedeemed)
	assert.Equal(t, 60.0, a.AveragePointsPerCustomer)
	assert.Equal(t, 0.63, a.RedemptionRate)
	assert.Equal(t, 1, a.TierBreakdown[domain.TierSilver])
}

func TestListCustomers_SortAndTier(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	byPoints, err := svc.ListCustomers(ctx, "", "points", 0)
	require.NoError(t, err)
	require.Len(t, byPoints, 2)
	assert.Equal(t, "customer-1", byPoints[0].ID)

	bronze, err := svc.ListCustomers(ctx, "bronze", "", 0)
	require.NoError(t, err)
	require.Len(t, bronze, 1)
	assert.Equal(t, "customer-2", bronze[0].ID)

	one, err := svc.ListCustomers(ctx, "", "lastVisit", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestUpdatePreferences_Merges(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	milk := "Soy Milk"
	c, err := svc.UpdatePreferences(ctx, "customer-1", dto.UpdatePreferencesRequest{
		Preferences: dto.PreferencesPatch{PreferredMilk: &milk},
	})
	require.NoError(t, err)
	assert.Equal(t, "Soy Milk", c.Preferences.PreferredMilk)
	assert.Equal(t, "Latte", c.Preferences.FavoriteDrink)
	assert.Equal(t, []string{"Lactose Intolerant"}, c.Preferences.DietaryRestrictions)
}
