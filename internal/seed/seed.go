// Package seed generates realistic transaction histories for demos and
// fixtures. Generation is deterministic for a given seed, so the same
// flags always reproduce the same data set.
package seed

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fjacquet/recurpay/internal/dateutils"
	"fjacquet/recurpay/internal/models"
)

// subscription is one synthetic recurring merchant.
type subscription struct {
	description string
	amount      string
	frequency   models.Frequency
	dayOfMonth  int
}

// catalog lists the recurring merchants every generated history contains.
// Descriptions carry the kind of noise words banks add, so the data
// exercises the whole normalization path.
var catalog = []subscription{
	{description: "NETFLIX.COM PAYMENT", amount: "-15.99", frequency: models.FrequencyMonthly, dayOfMonth: 15},
	{description: "SPOTIFY PREMIUM", amount: "-10.99", frequency: models.FrequencyMonthly, dayOfMonth: 3},
	{description: "ACME INSURANCE RECURRING BILL", amount: "-89.50", frequency: models.FrequencyQuarterly, dayOfMonth: 1},
	{description: "GYM CITYFIT AUTOPAY", amount: "-45.00", frequency: models.FrequencyMonthly, dayOfMonth: 28},
	{description: "CLOUD DRIVE PLUS", amount: "-2.99", frequency: models.FrequencyMonthly, dayOfMonth: 8},
	{description: "DOMAIN REGISTRY YEARLY", amount: "-24.00", frequency: models.FrequencyYearly, dayOfMonth: 20},
}

// Options controls one generation run.
type Options struct {
	// AccountID receives the generated transactions.
	AccountID string

	// Months of history to generate, counting back from Until.
	Months int

	// Until is the (exclusive) end of the generated window.
	Until time.Time

	// NoisePerMonth is how many one-off transactions pad each month.
	NoisePerMonth int

	// JitterDays shifts each periodic occurrence by up to this many days
	// in either direction.
	JitterDays int

	// Seed fixes the random source.
	Seed int64
}

// DefaultOptions returns a year of history with moderate noise.
func DefaultOptions(accountID string, until time.Time) Options {
	return Options{
		AccountID:     accountID,
		Months:        12,
		Until:         until,
		NoisePerMonth: 6,
		JitterDays:    1,
		Seed:          1,
	}
}

// Generate produces a transaction history: every catalog subscription on
// its schedule (with jitter), plus noise transactions. The result is
// sorted by date.
func Generate(opts Options) []models.Transaction {
	if opts.Months < 1 {
		opts.Months = 1
	}
	if opts.AccountID == "" {
		opts.AccountID = "acc-demo"
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	faker := gofakeit.NewUnlocked(opts.Seed)
	windowStart := dateutils.MonthsBack(opts.Until, opts.Months)

	var txs []models.Transaction
	for _, sub := range catalog {
		txs = append(txs, generateSeries(sub, windowStart, opts, rng)...)
	}
	txs = append(txs, generateNoise(windowStart, opts, rng, faker)...)

	sortTransactions(txs)
	return txs
}

// generateSeries walks one subscription's schedule across the window.
func generateSeries(sub subscription, windowStart time.Time, opts Options, rng *rand.Rand) []models.Transaction {
	amount := models.ParseAmount(sub.amount)

	// Anchor on the subscription's billing day in the first window month.
	due := time.Date(windowStart.Year(), windowStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	due = clampToDay(due, sub.dayOfMonth)
	for due.Before(windowStart) {
		due = advance(due, sub.frequency, sub.dayOfMonth)
	}

	var txs []models.Transaction
	for !due.After(opts.Until) {
		date := due
		if opts.JitterDays > 0 {
			offset := rng.Intn(2*opts.JitterDays+1) - opts.JitterDays
			date = date.AddDate(0, 0, offset)
		}
		txs = append(txs, models.Transaction{
			ID:          newID(rng),
			AccountID:   opts.AccountID,
			Description: sub.description,
			Amount:      amount,
			Date:        date,
		})
		due = advance(due, sub.frequency, sub.dayOfMonth)
	}
	return txs
}

// generateNoise scatters one-off purchases across the window.
func generateNoise(windowStart time.Time, opts Options, rng *rand.Rand, faker *gofakeit.Faker) []models.Transaction {
	total := opts.NoisePerMonth * opts.Months
	windowDays := dateutils.DaysBetween(windowStart, opts.Until)
	if windowDays < 1 {
		windowDays = 1
	}

	txs := make([]models.Transaction, 0, total)
	for i := 0; i < total; i++ {
		price := decimal.NewFromFloat(faker.Price(2, 250)).Round(2).Neg()
		txs = append(txs, models.Transaction{
			ID:          newID(rng),
			AccountID:   opts.AccountID,
			Description: fmt.Sprintf("%s %s", faker.Company(), faker.Word()),
			Amount:      price,
			Date:        windowStart.AddDate(0, 0, rng.Intn(windowDays)),
		})
	}
	return txs
}

// newID draws a UUID from the seeded source so runs stay reproducible.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func advance(due time.Time, f models.Frequency, dayOfMonth int) time.Time {
	if f == models.FrequencyWeekly {
		return due.AddDate(0, 0, 7)
	}
	next := dateutils.AddMonthsClamped(due, f.Months())
	return clampToDay(next, dayOfMonth)
}

// clampToDay pins a date to the given day of month, clamped to the
// month's end, so series stay on their nominal billing day after passing
// through a short month.
func clampToDay(t time.Time, dayOfMonth int) time.Time {
	day := dayOfMonth
	if last := dateutils.EndOfMonth(t).Day(); day > last {
		day = last
	}
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}

func sortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}
