package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"rentcar/internal/domain"
)

const topPerformers = 5

// Periods maps the accepted ?period= values to a number of calendar months.
var Periods = map[string]int{
	"3months":  3,
	"6months":  6,
	"12months": 12,
}

const DefaultPeriod = "6months"

// monthSeries buckets bookings by the month their rental starts, over the
// last n months ending with now's month. Months with no bookings are kept.
func monthSeries(bookings []domain.Booking, now time.Time, n int) []MonthPoint {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	amounts := make([]decimal.Decimal, n)
	counts := make([]int, n)

	for _, b := range bookings {
		start, err := domain.ParseDate(b.RentalStartDate)
		if err != nil || start.Before(first) {
			continue
		}
		idx := (start.Year()-first.Year())*12 + int(start.Month()) - int(first.Month())
		if idx >= n {
			continue
		}
		amounts[idx] = amounts[idx].Add(b.Amount())
		counts[idx]++
	}

	out := make([]MonthPoint, n)
	for i := range out {
		out[i] = MonthPoint{
			Month:    first.AddDate(0, i, 0).Format("2006-01"),
			Amount:   amounts[i].StringFixed(2),
			Bookings: counts[i],
		}
	}
	return out
}

func inPeriod(bookings []domain.Booking, now time.Time, n int) []domain.Booking {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		start, err := domain.ParseDate(b.RentalStartDate)
		if err == nil && !start.Before(first) {
			out = append(out, b)
		}
	}
	return out
}

func sum(bookings []domain.Booking) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bookings {
		total = total.Add(b.Amount())
	}
	return total
}

func carModels(cars []domain.Car) map[int64]string {
	m := make(map[int64]string, len(cars))
	for _, c := range cars {
		m[c.CarID] = c.CarModel
	}
	return m
}

// performance ranks cars by revenue, then bookings, then id.
func performance(bookings []domain.Booking, models map[int64]string) []CarPerformance {
	type acc struct {
		count   int
		revenue decimal.Decimal
	}
	byCar := make(map[int64]*acc)
	for _, b := range bookings {
		a, ok := byCar[b.CarID]
		if !ok {
			a = &acc{revenue: decimal.Zero}
			byCar[b.CarID] = a
		}
		a.count++
		a.revenue = a.revenue.Add(b.Amount())
	}

	ids := make([]int64, 0, len(byCar))
	for id := range byCar {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := byCar[ids[i]], byCar[ids[j]]
		if c := a.revenue.Cmp(b.revenue); c != 0 {
			return c > 0
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return ids[i] < ids[j]
	})

	out := make([]CarPerformance, 0, len(ids))
	for _, id := range ids {
		a := byCar[id]
		out = append(out, CarPerformance{CarID: id, CarModel: models[id], Bookings: a.count, Revenue: a.revenue.StringFixed(2)})
	}
	return out
}

func statusCounts(bookings []domain.Booking, now time.Time) []StatusCount {
	counts := map[domain.BookingStatus]int{}
	for _, b := range bookings {
		counts[b.Status(now)]++
	}
	return []StatusCount{
		{Status: domain.BookingActive, Count: counts[domain.BookingActive]},
		{Status: domain.BookingUpcoming, Count: counts[domain.BookingUpcoming]},
		{Status: domain.BookingCompleted, Count: counts[domain.BookingCompleted]},
	}
}

var durationBuckets = []struct {
	label string
	max   int
}{
	{"1-2 days", 2},
	{"3-5 days", 5},
	{"6-7 days", 7},
	{"1+ week", math.MaxInt},
}

// durations buckets rental lengths; percentages are rounded per bucket.
func durations(bookings []domain.Booking) []DurationBucket {
	out := make([]DurationBucket, len(durationBuckets))
	for i, b := range durationBuckets {
		out[i].Duration = b.label
	}
	counted := 0
	for _, b := range bookings {
		days := b.Days()
		if days == 0 {
			continue
		}
		for i, bucket := range durationBuckets {
			if days <= bucket.max {
				out[i].Count++
				break
			}
		}
		counted++
	}
	if counted == 0 {
		return out
	}
	for i := range out {
		out[i].Percentage = int(decimal.NewFromInt(int64(out[i].Count * 100)).
			Div(decimal.NewFromInt(int64(counted))).Round(0).IntPart())
	}
	return out
}

func averageDays(bookings []domain.Booking) decimal.Decimal {
	total, n := 0, 0
	for _, b := range bookings {
		if d := b.Days(); d > 0 {
			total += d
			n++
		}
	}
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(n)))
}

func recent(bookings []domain.Booking, models map[int64]string, limit int) []RecentBooking {
	sorted := make([]domain.Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RentalStartDate > sorted[j].RentalStartDate
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]RecentBooking, 0, len(sorted))
	for _, b := range sorted {
		out = append(out, RecentBooking{
			BookingID: b.BookingID,
			CarModel:  models[b.CarID],
			Date:      b.RentalStartDate,
			Amount:    b.Amount().StringFixed(2),
			Duration:  b.Days(),
		})
	}
	return out
}

// BuildAdmin computes fleet-wide analytics. Totals in the overview cover
// every booking; series and rankings cover the period.
func BuildAdmin(period string, now time.Time, cars []domain.Car, bookings []domain.Booking, users []domain.Customer) AdminAnalytics {
	months := Periods[period]
	scoped := inPeriod(bookings, now, months)
	models := carModels(cars)

	top := performance(scoped, models)
	if len(top) > topPerformers {
		top = top[:topPerformers]
	}

	return AdminAnalytics{
		Period: period,
		Overview: AdminOverview{
			TotalRevenue:  sum(bookings).StringFixed(2),
			TotalBookings: len(bookings),
			TotalCars:     len(cars),
			AvailableCars: len(domain.AvailableCars(cars)),
			TotalUsers:    len(users),
		},
		MonthlyRevenue: monthSeries(bookings, now, months),
		ByStatus:       statusCounts(bookings, now),
		TopPerformers:  top,
	}
}

// BuildUser computes a customer's own analytics.
func BuildUser(period string, now time.Time, cars []domain.Car, bookings []domain.Booking) UserAnalytics {
	models := carModels(cars)

	var favorite string
	if perf := performance(bookings, models); len(perf) > 0 {
		sort.SliceStable(perf, func(i, j int) bool { return perf[i].Bookings > perf[j].Bookings })
		favorite = perf[0].CarModel
	}

	return UserAnalytics{
		Period: period,
		Overview: UserOverview{
			TotalBookings: len(bookings),
			TotalSpent:    sum(bookings).StringFixed(2),
			AverageRental: averageDays(bookings).StringFixed(1),
			FavoriteCar:   favorite,
		},
		MonthlySpending: monthSeries(bookings, now, Periods[period]),
		RentalDuration:  durations(bookings),
		RecentBookings:  recent(bookings, models, 4),
	}
}
