// Package reporting aggregates completed sales into calendar buckets.
//
// Bucketing happens in Go rather than SQL so daily, weekly, monthly and
// annual reports behave the same on every supported database.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pankajredekar/shopadmin/internal/apperr"
	"github.com/pankajredekar/shopadmin/internal/models"
)

// maxBuckets caps the size of a single report
const maxBuckets = 5000

var hundred = decimal.NewFromInt(100)

// RevenueBucket is the revenue of one period. Empty periods are reported
// with zero values.
type RevenueBucket struct {
	PeriodStart       string          `json:"period_start"`
	PeriodEnd         string          `json:"period_end"`
	PeriodLabel       string          `json:"period_label"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalSales        int             `json:"total_sales"`
	OrderCount        int             `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	CategoryName      *string         `json:"category_name"`
}

// Query selects the sales that feed a report. Nil dates take defaults.
type Query struct {
	Bucket     Bucket
	Start      *time.Time
	End        *time.Time
	CategoryID *uint
}

// PeriodSummary totals one side of a comparison
type PeriodSummary struct {
	Period            string          `json:"period_name"`
	Buckets           []RevenueBucket `json:"data"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalSales        int             `json:"total_sales"`
	OrderCount        int             `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// Comparison holds two periods and the change from A to B. Percentages are
// nil when period A is zero.
type Comparison struct {
	PeriodA                 PeriodSummary   `json:"period1"`
	PeriodB                 PeriodSummary   `json:"period2"`
	RevenueChange           decimal.Decimal `json:"revenue_change"`
	RevenueChangePercentage *float64        `json:"revenue_change_percentage"`
	SalesChange             int             `json:"sales_change"`
	SalesChangePercentage   *float64        `json:"sales_change_percentage"`
}

// CompareQuery names two inclusive date ranges
type CompareQuery struct {
	Bucket     Bucket
	AStart     time.Time
	AEnd       time.Time
	BStart     time.Time
	BEnd       time.Time
	CategoryID *uint
}

// Reporter computes revenue over calendar buckets from completed sales
type Reporter struct {
	db        *gorm.DB
	log       *zap.Logger
	weekStart time.Weekday
	now       func() time.Time
}

// NewReporter creates a reporter whose weekly buckets start on weekStart
func NewReporter(db *gorm.DB, log *zap.Logger, weekStart time.Weekday) *Reporter {
	return &Reporter{
		db:        db,
		log:       log.Named("reporting"),
		weekStart: weekStart,
		now:       time.Now,
	}
}

// Aggregate returns one bucket per period overlapping the query range
func (r *Reporter) Aggregate(ctx context.Context, q Query) ([]RevenueBucket, error) {
	if _, err := ParseBucket(string(q.Bucket)); err != nil {
		return nil, apperr.Validation("%v", err).WithDetail("bucket", "must be one of daily, weekly, monthly, annual")
	}

	end := dateOf(r.now())
	if q.End != nil {
		end = dateOf(*q.End)
	}
	start := defaultStart(q.Bucket, end)
	if q.Start != nil {
		start = dateOf(*q.Start)
	}

	return r.aggregate(ctx, q.Bucket, start, end, q.CategoryID)
}

// Compare reports two ranges side by side with the change from A to B
func (r *Reporter) Compare(ctx context.Context, q CompareQuery) (*Comparison, error) {
	bucket := q.Bucket
	if bucket == "" {
		bucket = Monthly
	}
	if _, err := ParseBucket(string(bucket)); err != nil {
		return nil, apperr.Validation("%v", err).WithDetail("bucket", "must be one of daily, weekly, monthly, annual")
	}

	a, err := r.summarize(ctx, bucket, dateOf(q.AStart), dateOf(q.AEnd), q.CategoryID)
	if err != nil {
		return nil, err
	}
	b, err := r.summarize(ctx, bucket, dateOf(q.BStart), dateOf(q.BEnd), q.CategoryID)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		PeriodA:       *a,
		PeriodB:       *b,
		RevenueChange: b.TotalRevenue.Sub(a.TotalRevenue),
		SalesChange:   b.TotalSales - a.TotalSales,
	}
	cmp.RevenueChangePercentage = percentChange(a.TotalRevenue, cmp.RevenueChange)
	cmp.SalesChangePercentage = percentChange(decimal.NewFromInt(int64(a.TotalSales)), decimal.NewFromInt(int64(cmp.SalesChange)))
	return cmp, nil
}

func (r *Reporter) summarize(ctx context.Context, bucket Bucket, start, end time.Time, categoryID *uint) (*PeriodSummary, error) {
	buckets, err := r.aggregate(ctx, bucket, start, end, categoryID)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		Period:       start.Format(time.DateOnly) + " to " + end.Format(time.DateOnly),
		Buckets:      buckets,
		TotalRevenue: decimal.Zero,
	}
	for _, b := range buckets {
		summary.TotalRevenue = summary.TotalRevenue.Add(b.TotalRevenue)
		summary.TotalSales += b.TotalSales
		summary.OrderCount += b.OrderCount
	}
	summary.AverageOrderValue = average(summary.TotalRevenue, summary.OrderCount)
	return summary, nil
}

// saleLine is one sold item with the date of its sale
type saleLine struct {
	SaleID   uint
	SaleDate time.Time
	Quantity int
	Subtotal decimal.Decimal
}

type accumulator struct {
	revenue decimal.Decimal
	units   int
	orders  map[uint]struct{}
}

func (r *Reporter) aggregate(ctx context.Context, bucket Bucket, start, end time.Time, categoryID *uint) ([]RevenueBucket, error) {
	if start.After(end) {
		return nil, apperr.Validation("start_date must not be after end_date").
			WithDetail("start_date", start.Format(time.DateOnly)).
			WithDetail("end_date", end.Format(time.DateOnly))
	}

	cal := calendar{bucket: bucket, weekStart: r.weekStart}
	periods := cal.periods(start, end)
	if len(periods) > maxBuckets {
		return nil, apperr.Validation("range spans %d %s buckets, at most %d allowed", len(periods), bucket, maxBuckets)
	}

	categoryName, err := r.categoryName(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	lines, err := r.saleLines(ctx, start, end, categoryID)
	if err != nil {
		return nil, err
	}

	acc := make(map[time.Time]*accumulator, len(periods))
	for _, line := range lines {
		key := cal.periodOf(line.SaleDate).Start
		a, ok := acc[key]
		if !ok {
			a = &accumulator{revenue: decimal.Zero, orders: make(map[uint]struct{})}
			acc[key] = a
		}
		a.revenue = a.revenue.Add(line.Subtotal)
		a.units += line.Quantity
		a.orders[line.SaleID] = struct{}{}
	}

	out := make([]RevenueBucket, 0, len(periods))
	for _, p := range periods {
		b := RevenueBucket{
			PeriodStart:       p.Start.Format(time.DateOnly),
			PeriodEnd:         p.End.Format(time.DateOnly),
			PeriodLabel:       p.Label,
			TotalRevenue:      decimal.Zero,
			AverageOrderValue: decimal.Zero,
			CategoryName:      categoryName,
		}
		if a, ok := acc[p.Start]; ok {
			b.TotalRevenue = a.revenue
			b.TotalSales = a.units
			b.OrderCount = len(a.orders)
			b.AverageOrderValue = average(a.revenue, len(a.orders))
		}
		out = append(out, b)
	}

	r.log.Debug("revenue aggregated",
		zap.String("bucket", string(bucket)),
		zap.String("start", start.Format(time.DateOnly)),
		zap.String("end", end.Format(time.DateOnly)),
		zap.Int("lines", len(lines)),
		zap.Int("buckets", len(out)))
	return out, nil
}

// saleLines loads the items of completed sales dated within [start, end].
// With a category only that category's items are returned.
func (r *Reporter) saleLines(ctx context.Context, start, end time.Time, categoryID *uint) ([]saleLine, error) {
	q := r.db.WithContext(ctx).Table("sale_items").
		Select("sale_items.sale_id, sales.sale_date, sale_items.quantity, sale_items.subtotal").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.status = ?", models.SaleStatusCompleted).
		Where("sales.sale_date >= ? AND sales.sale_date < ?", start, end.AddDate(0, 0, 1))
	if categoryID != nil {
		q = q.Joins("JOIN products ON products.id = sale_items.product_id").
			Where("products.category_id = ?", *categoryID)
	}

	var lines []saleLine
	if err := q.Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return lines, nil
}

func (r *Reporter) categoryName(ctx context.Context, categoryID *uint) (*string, error) {
	if categoryID == nil {
		return nil, nil
	}
	var category models.Category
	if err := r.db.WithContext(ctx).Select("id", "name").First(&category, *categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category", *categoryID)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category.Name, nil
}

func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

func percentChange(base, change decimal.Decimal) *float64 {
	if base.IsZero() {
		return nil
	}
	pct, _ := change.Div(base).Mul(hundred).Round(2).Float64()
	return &pct
}
