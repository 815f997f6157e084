package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cafesync/internal/common/logger"
	"cafesync/internal/common/validate"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/loyalty/domain/dto"
	"cafesync/internal/microservices/loyalty/repository"
)

const (
	defaultListLimit = 50
	historyLimit     = 20
	activeWindow     = 30 * 24 * time.Hour
)

// reward thresholds in the order they are checked
var rewardRules = []struct {
	typ         domain.RewardType
	description string
	points      int
}{
	{domain.RewardFreeDrink, "Free Medium Drink", 100},
	{domain.RewardFreePastry, "Free Pastry", 150},
}

type LoyaltyServiceInterface interface {
	ListCustomers(ctx context.Context, tier, sortBy string, limit int) ([]domain.LoyaltyCustomer, error)
	GetCustomer(ctx context.Context, id string) (dto.CustomerDetail, error)
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (domain.LoyaltyCustomer, error)
	UpdatePreferences(ctx context.Context, id string, req dto.UpdatePreferencesRequest) (domain.LoyaltyCustomer, error)
	AddPoints(ctx context.Context, id string, req dto.AddPointsRequest) (domain.LoyaltyCustomer, []domain.Reward, error)
	Redeem(ctx context.Context, id string, req dto.RedeemRequest) (domain.LoyaltyCustomer, error)
	Analytics(ctx context.Context) (dto.Analytics, error)
	Seed(ctx context.Context) error
}

type LoyaltyService struct {
	db  repository.LoyaltyRepositoryInterface
	lg  *logger.Logger
	now func() time.Time
}

func NewLoyaltyService(db repository.LoyaltyRepositoryInterface) *LoyaltyService {
	return &LoyaltyService{
		db:  db,
		lg:  logger.New("loyalty-service"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (ls *LoyaltyService) ListCustomers(ctx context.Context, tier, sortBy string, limit int) ([]domain.LoyaltyCustomer, error) {
	customers, err := ls.db.List(ctx, domain.Tier(tier))
	if err != nil {
		return nil, err
	}
	var less func(a, b domain.LoyaltyCustomer) bool
	switch sortBy {
	case "points":
		less = func(a, b domain.LoyaltyCustomer) bool { return a.LoyaltyPoints > b.LoyaltyPoints }
	case "totalSpent":
		less = func(a, b domain.LoyaltyCustomer) bool { return a.TotalSpent > b.TotalSpent }
	case "visitCount":
		less = func(a, b domain.LoyaltyCustomer) bool { return a.VisitCount > b.VisitCount }
	default:
		less = func(a, b domain.LoyaltyCustomer) bool { return a.LastVisit.After(b.LastVisit) }
	}
	sort.SliceStable(customers, func(i, j int) bool { return less(customers[i], customers[j]) })
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(customers) > limit {
		customers = customers[:limit]
	}
	return customers, nil
}

func (ls *LoyaltyService) GetCustomer(ctx context.Context, id string) (dto.CustomerDetail, error) {
	c, err := ls.db.Get(ctx, id)
	if err != nil {
		return dto.CustomerDetail{}, err
	}
	txs, err := ls.db.Transactions(ctx, id, historyLimit)
	if err != nil {
		return dto.CustomerDetail{}, err
	}
	if txs == nil {
		txs = []domain.LoyaltyTransaction{}
	}
	return dto.CustomerDetail{LoyaltyCustomer: c, TransactionHistory: txs}, nil
}

func (ls *LoyaltyService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (domain.LoyaltyCustomer, error) {
	req.Name, req.Email = strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return domain.LoyaltyCustomer{}, domain.Invalid("Name and email are required")
	}
	if err := validate.Struct(req, ""); err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	now := ls.now()
	prefs := req.Preferences
	if prefs.DietaryRestrictions == nil {
		prefs.DietaryRestrictions = []string{}
	}
	c := domain.LoyaltyCustomer{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Tier:        domain.TierBronze,
		JoinDate:    now,
		LastVisit:   now,
		Preferences: prefs,
		Rewards:     []domain.Reward{},
	}
	if err := ls.db.Create(ctx, c); err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	ls.lg.Info("customer_created", map[string]any{"customer_id": c.ID})
	return c, nil
}

func (ls *LoyaltyService) UpdatePreferences(ctx context.Context, id string, req dto.UpdatePreferencesRequest) (domain.LoyaltyCustomer, error) {
	p := req.Preferences
	return ls.db.Mutate(ctx, id, func(c *domain.LoyaltyCustomer) (*domain.LoyaltyTransaction, error) {
		if p.FavoriteDrink != nil {
			c.Preferences.FavoriteDrink = *p.FavoriteDrink
		}
		if p.PreferredMilk != nil {
			c.Preferences.PreferredMilk = *p.PreferredMilk
		}
		if p.PreferredSize != nil {
			c.Preferences.PreferredSize = *p.PreferredSize
		}
		if p.DietaryRestrictions != nil {
			c.Preferences.DietaryRestrictions = *p.DietaryRestrictions
		}
		return nil, nil
	})
}

// AddPoints credits a visit and issues any rewards the new balance unlocks.
func (ls *LoyaltyService) AddPoints(ctx context.Context, id string, req dto.AddPointsRequest) (domain.LoyaltyCustomer, []domain.Reward, error) {
	if err := validate.Struct(req, "Valid points amount is required"); err != nil {
		return domain.LoyaltyCustomer{}, nil, err
	}
	var issued []domain.Reward
	c, err := ls.db.Mutate(ctx, id, func(c *domain.LoyaltyCustomer) (*domain.LoyaltyTransaction, error) {
		now := ls.now()
		c.LoyaltyPoints += req.Points
		c.TotalSpent = decimal.NewFromFloat(c.TotalSpent).Add(decimal.NewFromFloat(req.Amount)).Round(2).InexactFloat64()
		c.VisitCount++
		c.LastVisit = now
		c.Tier = domain.TierFor(c.LoyaltyPoints)

		issued = nil
		for _, rule := range rewardRules {
			if c.LoyaltyPoints >= rule.points && !c.HasOpenReward(rule.typ) {
				r := domain.Reward{
					ID:             uuid.NewString(),
					Type:           rule.typ,
					Description:    rule.description,
					PointsRequired: rule.points,
					EarnedDate:     now,
				}
				c.Rewards = append(c.Rewards, r)
				issued = append(issued, r)
			}
		}
		desc := req.Reason
		if desc == "" {
			desc = "Points earned"
		}
		return &domain.LoyaltyTransaction{
			ID:          uuid.NewString(),
			CustomerID:  c.ID,
			Type:        domain.TxEarned,
			Points:      req.Points,
			OrderID:     req.OrderID,
			Description: desc,
			Timestamp:   now,
		}, nil
	})
	if err != nil {
		return domain.LoyaltyCustomer{}, nil, err
	}
	ls.lg.Info("points_added", map[string]any{
		"customer_id": c.ID, "points": req.Points, "balance": c.LoyaltyPoints, "tier": c.Tier, "new_rewards": len(issued),
	})
	return c, issued, nil
}

func (ls *LoyaltyService) Redeem(ctx context.Context, id string, req dto.RedeemRequest) (domain.LoyaltyCustomer, error) {
	if err := validate.Struct(req, "rewardId is required"); err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	c, err := ls.db.Mutate(ctx, id, func(c *domain.LoyaltyCustomer) (*domain.LoyaltyTransaction, error) {
		idx := -1
		for i, r := range c.Rewards {
			if r.ID == req.RewardID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, domain.NotFound("Reward not found")
		}
		reward := &c.Rewards[idx]
		if reward.Redeemed {
			return nil, domain.Invalid("Reward already redeemed")
		}
		if c.LoyaltyPoints < reward.PointsRequired {
			return nil, domain.Invalid("Insufficient points for this reward")
		}
		now := ls.now()
		c.LoyaltyPoints -= reward.PointsRequired
		reward.Redeemed = true
		reward.RedeemedDate = &now
		return &domain.LoyaltyTransaction{
			ID:          uuid.NewString(),
			CustomerID:  c.ID,
			Type:        domain.TxRedemption,
			Points:      -reward.PointsRequired,
			RewardID:    reward.ID,
			Description: fmt.Sprintf("Redeemed: %s", reward.Description),
			Timestamp:   now,
		}, nil
	})
	if err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	ls.lg.Info("reward_redeemed", map[string]any{"customer_id": c.ID, "reward_id": req.RewardID, "balance": c.LoyaltyPoints})
	return c, nil
}

func (ls *LoyaltyService) Analytics(ctx context.Context) (dto.Analytics, error) {
	customers, err := ls.db.List(ctx, "")
	if err != nil {
		return dto.Analytics{}, err
	}
	issued, redeemed, err := ls.db.PointTotals(ctx)
	if err != nil {
		return dto.Analytics{}, err
	}
	out := dto.Analytics{
		TotalCustomers:      len(customers),
		TierBreakdown:       map[domain.Tier]int{},
		TotalPointsIssued:   issued,
		TotalPointsRedeemed: redeemed,
	}
	cutoff := ls.now().Add(-activeWindow)
	points := 0
	for _, c := range customers {
		if c.LastVisit.After(cutoff) {
			out.ActiveCustomers++
		}
		out.TierBreakdown[c.Tier]++
		points += c.LoyaltyPoints
	}
	if len(customers) > 0 {
		out.AveragePointsPerCustomer = round2(float64(points) / float64(len(customers)))
	}
	if issued > 0 {
		out.RedemptionRate = round2(float64(redeemed) / float64(issued))
	}
	return out, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
