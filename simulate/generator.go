package simulate

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// GENERATOR — Synthetic order data for the retention pipeline
// ============================================================================
// Each customer is assigned a first-purchase date uniformly in the simulation
// window and always gets an order on that date, so a customer's first
// transaction month equals their cohort month. Repeat orders land a
// geometric number of weeks after the first purchase; orders past the window
// end are discarded, which naturally thins out late cohorts.
// ============================================================================

// Config holds the simulation parameters.
type Config struct {
	NumCustomers  int     `json:"numCustomers"`
	NumOrders     int     `json:"numOrders"` // repeat-order draws, before end-of-window discards
	Start         string  `json:"start"`     // "2006-01-02"
	End           string  `json:"end"`
	RepeatProb    float64 `json:"repeatProb"` // geometric weekly repeat-gap parameter
	MinOrderValue float64 `json:"minOrderValue"`
	MaxOrderValue float64 `json:"maxOrderValue"`
	Seed          int64   `json:"seed"`
}

// DefaultConfig mirrors the standard simulation: 500 customers, 5000 order
// draws, Jan-2023 through May-2024, weekly repeat gaps with p=0.2, order
// values between 10 and 200.
func DefaultConfig() Config {
	return Config{
		NumCustomers:  500,
		NumOrders:     5000,
		Start:         "2023-01-01",
		End:           "2024-05-31",
		RepeatProb:    0.2,
		MinOrderValue: 10,
		MaxOrderValue: 200,
		Seed:          1,
	}
}

// LoadConfig reads a Config from a JSON file, filling unset fields from
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for values the generator cannot work with.
func (c Config) Validate() error {
	if c.NumCustomers <= 0 {
		return fmt.Errorf("numCustomers must be positive, got %d", c.NumCustomers)
	}
	if c.NumOrders < 0 {
		return fmt.Errorf("numOrders must be non-negative, got %d", c.NumOrders)
	}
	if c.RepeatProb <= 0 || c.RepeatProb > 1 {
		return fmt.Errorf("repeatProb must be in (0,1], got %v", c.RepeatProb)
	}
	if c.MinOrderValue <= 0 || c.MaxOrderValue < c.MinOrderValue {
		return fmt.Errorf("order value range [%v, %v] is invalid", c.MinOrderValue, c.MaxOrderValue)
	}
	start, err := time.Parse("2006-01-02", c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", c.Start, err)
	}
	end, err := time.Parse("2006-01-02", c.End)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", c.End, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end %s before start %s", c.End, c.Start)
	}
	return nil
}

// Customer is a simulated customer with an assigned first-purchase date.
// The assigned date is the customer's cohort anchor: their earliest order
// always lands on it.
type Customer struct {
	ID            int64     `json:"id"`
	FirstPurchase time.Time `json:"firstPurchase"`
}

// Generate produces synthetic orders according to the config, along with the
// customer roster the orders were drawn for. Output is sorted by order date,
// with sequential order IDs assigned after sorting. Deterministic for a
// fixed Seed.
func Generate(cfg Config) ([]cohort.Order, []Customer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	start, _ := time.Parse("2006-01-02", cfg.Start)
	end, _ := time.Parse("2006-01-02", cfg.End)
	windowDays := int(end.Sub(start).Hours()/24) + 1

	rng := rand.New(rand.NewSource(cfg.Seed))

	// Assign each customer a first-purchase date, and seed an order on it.
	customers := make([]Customer, cfg.NumCustomers)
	orders := make([]cohort.Order, 0, cfg.NumCustomers+cfg.NumOrders)
	for i := range customers {
		customers[i] = Customer{
			ID:            int64(i + 1),
			FirstPurchase: start.AddDate(0, 0, rng.Intn(windowDays)),
		}
		orders = append(orders, cohort.Order{
			CustomerID: customers[i].ID,
			Placed:     customers[i].FirstPurchase,
			Value:      randomValue(rng, cfg),
		})
	}

	// Repeat orders: random customer, geometric weekly gap from their
	// first purchase. Draws past the window end are dropped.
	for i := 0; i < cfg.NumOrders; i++ {
		c := customers[rng.Intn(cfg.NumCustomers)]
		gap := geometricWeeks(rng, cfg.RepeatProb) * 7
		placed := c.FirstPurchase.AddDate(0, 0, gap)
		if placed.After(end) {
			continue
		}
		orders = append(orders, cohort.Order{
			CustomerID: c.ID,
			Placed:     placed,
			Value:      randomValue(rng, cfg),
		})
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Placed.Before(orders[j].Placed)
	})
	for i := range orders {
		orders[i].ID = int64(i + 1)
	}

	return orders, customers, nil
}

// geometricWeeks draws from a geometric distribution with support {1, 2, ...}:
// the number of weekly visits until the customer comes back.
func geometricWeeks(rng *rand.Rand, p float64) int {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	k := int(math.Floor(math.Log(u)/math.Log(1-p))) + 1
	if k < 1 {
		k = 1
	}
	return k
}

// randomValue draws a uniform order value in [min, max], rounded to cents.
func randomValue(rng *rand.Rand, cfg Config) decimal.Decimal {
	v := cfg.MinOrderValue + rng.Float64()*(cfg.MaxOrderValue-cfg.MinOrderValue)
	return decimal.NewFromFloat(v).Round(2)
}
