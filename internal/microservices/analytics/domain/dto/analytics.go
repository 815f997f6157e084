package dto

type HourBucket struct {
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
	Items  int     `json:"items"`
}

type ItemSales struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type Sales struct {
	Period            string                `json:"period"`
	TotalSales        float64               `json:"totalSales"`
	TotalOrders       int                   `json:"totalOrders"`
	AverageOrderValue float64               `json:"averageOrderValue"`
	Hourly            map[string]HourBucket `json:"hourly"`
	TopSellingItems   []ItemSales           `json:"topSellingItems"`
}

type StaffMember struct {
	StaffID         string  `json:"staffId"`
	OrdersCompleted int     `json:"ordersCompleted"`
	TotalSales      float64 `json:"totalSales"`
	AveragePrepTime float64 `json:"averagePrepTime"`
	SalesPerHour    float64 `json:"salesPerHour"`
}

type Staff struct {
	Period           string        `json:"period"`
	TotalStaff       int           `json:"totalStaff"`
	TotalSales       float64       `json:"totalSales"`
	TotalOrders      int           `json:"totalOrders"`
	StaffPerformance []StaffMember `json:"staffPerformance"`
}

type Revenue struct {
	Period                  string             `json:"period"`
	TotalRevenue            float64            `json:"totalRevenue"`
	PaymentMethodBreakdown  map[string]float64 `json:"paymentMethodBreakdown"`
	HourlyRevenue           map[string]float64 `json:"hourlyRevenue"`
	AverageTransactionValue float64            `json:"averageTransactionValue"`
}

type FrequentCustomer struct {
	Customer   string  `json:"customer"`
	Visits     int     `json:"visits"`
	TotalSpent float64 `json:"totalSpent"`
}

type Customers struct {
	Period                         string             `json:"period"`
	UniqueCustomers                int                `json:"uniqueCustomers"`
	TotalTransactions              int                `json:"totalTransactions"`
	AverageTransactionsPerCustomer float64            `json:"averageTransactionsPerCustomer"`
	Takeout                        int                `json:"takeout"`
	DineIn                         int                `json:"dineIn"`
	FrequentCustomers              []FrequentCustomer `json:"frequentCustomers"`
}

type Dashboard struct {
	TotalOrders        int            `json:"totalOrders"`
	TotalRevenue       float64        `json:"totalRevenue"`
	AverageOrderValue  float64        `json:"averageOrderValue"`
	AveragePrepTime    float64        `json:"averagePrepTime"`
	TopItems           []ItemSales    `json:"topItems"`
	PaymentMethods     map[string]int `json:"paymentMethods"`
	CustomerTypes      map[string]int `json:"customerTypes"`
	HourlyDistribution map[string]int `json:"hourlyDistribution"`
	ActiveOrders       int            `json:"activeOrders"`
	LowStockCount      int            `json:"lowStockCount"`
}
