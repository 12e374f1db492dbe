package dashboard

import "rentcar/internal/domain"

// DrawerItem is one entry of a shell's side navigation.
type DrawerItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

type Shell struct {
	Role    domain.Role     `json:"role"`
	User    *domain.Profile `json:"user"`
	Landing string          `json:"landing"`
	Drawer  []DrawerItem    `json:"drawer"`
}

type MonthPoint struct {
	Month    string `json:"month"`
	Amount   string `json:"amount"`
	Bookings int    `json:"bookings"`
}

type CarPerformance struct {
	CarID    int64  `json:"carID"`
	CarModel string `json:"carModel"`
	Bookings int    `json:"bookings"`
	Revenue  string `json:"revenue"`
}

type DurationBucket struct {
	Duration   string `json:"duration"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type StatusCount struct {
	Status domain.BookingStatus `json:"status"`
	Count  int                  `json:"count"`
}

type AdminOverview struct {
	TotalRevenue  string `json:"totalRevenue"`
	TotalBookings int    `json:"totalBookings"`
	TotalCars     int    `json:"totalCars"`
	AvailableCars int    `json:"availableCars"`
	TotalUsers    int    `json:"totalUsers"`
}

type AdminAnalytics struct {
	Period         string           `json:"period"`
	Overview       AdminOverview    `json:"overview"`
	MonthlyRevenue []MonthPoint     `json:"monthlyRevenue"`
	ByStatus       []StatusCount    `json:"bookingsByStatus"`
	TopPerformers  []CarPerformance `json:"topPerformers"`
}

type RecentBooking struct {
	BookingID int64  `json:"bookingID"`
	CarModel  string `json:"carModel"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Duration  int    `json:"duration"`
}

type UserOverview struct {
	TotalBookings int    `json:"totalBookings"`
	TotalSpent    string `json:"totalSpent"`
	AverageRental string `json:"averageRental"`
	FavoriteCar   string `json:"favoriteCar,omitempty"`
}

type UserAnalytics struct {
	Period          string           `json:"period"`
	Overview        UserOverview     `json:"overview"`
	MonthlySpending []MonthPoint     `json:"monthlySpending"`
	RentalDuration  []DurationBucket `json:"rentalDuration"`
	RecentBookings  []RecentBooking  `json:"recentBookings"`
}
