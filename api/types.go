package api

type Location struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	PhoneNumber  string        `json:"phone_number"`
	WorkingHours []WorkingHour `json:"working_hours"`
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	CreatedAt    string        `json:"created_at,omitempty"`
	UpdatedAt    string        `json:"updated_at,omitempty"`
}

// WorkingHour is one weekday's opening window. Open and Close are "HH:MM".
type WorkingHour struct {
	Day    string `json:"day"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

type StorageStatus string

const (
	StorageIdle     StorageStatus = "idle"
	StorageOccupied StorageStatus = "occupied"
	StorageReserved StorageStatus = "reserved"
	StorageFaulty   StorageStatus = "faulty"
)

var StorageStatuses = []StorageStatus{StorageIdle, StorageOccupied, StorageReserved, StorageFaulty}

func (s StorageStatus) Valid() bool {
	for _, status := range StorageStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Storage struct {
	ID         string        `json:"id"`
	LocationID string        `json:"location_id"`
	Code       string        `json:"code"`
	Status     StorageStatus `json:"status"`
	LastSeenAt string        `json:"last_seen_at,omitempty"`
}

type CalendarEntry struct {
	ReservationID string `json:"reservation_id"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	Status        string `json:"status"`
	CustomerName  string `json:"customer_name,omitempty"`
}

type StorageCalendar struct {
	StorageID string          `json:"storage_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Entries   []CalendarEntry `json:"entries"`
}

type Staff struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name,omitempty"`
	UserEmail   string   `json:"user_email,omitempty"`
	StorageIDs  []string `json:"storage_ids"`
	LocationIDs []string `json:"location_ids"`
}

type PricingScope string

const (
	ScopeGlobal   PricingScope = "GLOBAL"
	ScopeTenant   PricingScope = "TENANT"
	ScopeLocation PricingScope = "LOCATION"
	ScopeStorage  PricingScope = "STORAGE"
)

var PricingScopes = []PricingScope{ScopeGlobal, ScopeTenant, ScopeLocation, ScopeStorage}

type PricingType string

const (
	PricingHourly  PricingType = "hourly"
	PricingDaily   PricingType = "daily"
	PricingWeekly  PricingType = "weekly"
	PricingMonthly PricingType = "monthly"
)

var PricingTypes = []PricingType{PricingHourly, PricingDaily, PricingWeekly, PricingMonthly}

// PricingRule prices are in minor currency units (kuruş).
type PricingRule struct {
	ID            string       `json:"id"`
	Scope         PricingScope `json:"scope"`
	LocationID    string       `json:"location_id,omitempty"`
	StorageID     string       `json:"storage_id,omitempty"`
	PricingType   PricingType  `json:"pricing_type"`
	PricePerHour  int64        `json:"price_per_hour"`
	PricePerDay   int64        `json:"price_per_day"`
	PricePerWeek  int64        `json:"price_per_week"`
	PricePerMonth int64        `json:"price_per_month"`
	MinimumCharge int64        `json:"minimum_charge"`
	Priority      int          `json:"priority"`
	IsActive      bool         `json:"is_active"`
}

// UnitPrice is the price matching the rule's pricing type.
func (r PricingRule) UnitPrice() int64 {
	switch r.PricingType {
	case PricingHourly:
		return r.PricePerHour
	case PricingDaily:
		return r.PricePerDay
	case PricingWeekly:
		return r.PricePerWeek
	case PricingMonthly:
		return r.PricePerMonth
	}
	return 0
}

type RevenueSummary struct {
	TotalRevenue     int64  `json:"total_revenue"`
	TotalPlatformFee int64  `json:"total_platform_fee"`
	TotalTenantShare int64  `json:"total_tenant_share"`
	TransactionCount int    `json:"transaction_count"`
	TodayRevenue     int64  `json:"today_revenue"`
	WeekRevenue      int64  `json:"week_revenue"`
	MonthRevenue     int64  `json:"month_revenue"`
	Currency         string `json:"currency,omitempty"`
}

type DailyRevenue struct {
	Date             string `json:"date"`
	Revenue          int64  `json:"revenue"`
	TransactionCount int    `json:"transaction_count"`
}

type PaymentModeRevenue struct {
	PaymentMode      string `json:"payment_mode"`
	Revenue          int64  `json:"revenue"`
	TransactionCount int    `json:"transaction_count"`
}

type RevenueTransaction struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	LocationID  string `json:"location_id"`
	StorageID   string `json:"storage_id"`
	PaymentMode string `json:"payment_mode"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
}

// Settlement is the platform/tenant split of one transaction.
type Settlement struct {
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	TotalAmount   int64  `json:"total_amount"`
	PlatformFee   int64  `json:"platform_fee"`
	TenantShare   int64  `json:"tenant_share"`
	Status        string `json:"status"`
	SettledAt     string `json:"settled_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type Ticket struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type MailMessage struct {
	ID        string `json:"id"`
	Folder    string `json:"folder"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
