package fake

import (
	"github.com/brianvoe/gofakeit/v7"

	"github.com/polkiloo/datafeed/internal/domain/model"
)

// Operation identifies one of the mutations a tick may perform.
type Operation string

const (
	OpInsertOrder    Operation = "insert_order"
	OpUpdateOrder    Operation = "update_order"
	OpInsertCustomer Operation = "insert_customer"
)

// Operation weights: 60% order inserts, 30% order updates, 10% new customers.
var (
	operationChoices = []any{OpInsertOrder, OpUpdateOrder, OpInsertCustomer}
	operationWeights = []float32{60, 30, 10}
)

const (
	minOrderAmount = 10.00
	maxOrderAmount = 1000.00
)

// Generator produces the synthetic values written by the generator loop.
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a generator with a randomly seeded source.
func New() *Generator {
	return NewSeeded(0)
}

// NewSeeded creates a generator with a deterministic source when seed is
// non-zero. Reproducible runs must use an explicit seed.
func NewSeeded(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Operation draws the next operation with 60/30/10 weights.
func (g *Generator) Operation() Operation {
	choice, err := g.faker.Weighted(operationChoices, operationWeights)
	if err != nil {
		// Choice and weight tables are fixed and equally sized.
		return OpInsertOrder
	}
	return choice.(Operation)
}

// Name returns a synthetic human name.
func (g *Generator) Name() string {
	return g.faker.Name()
}

// Email returns a synthetic email address. Uniqueness is best effort; the
// customers.email constraint is the authority and collisions are benign.
func (g *Generator) Email() string {
	return g.faker.Email()
}

// Amount returns a uniform order total in [10.00, 1000.00] with exactly
// two decimal places.
func (g *Generator) Amount() float64 {
	return g.faker.Price(minOrderAmount, maxOrderAmount)
}

// Status returns a uniformly random status from the full status set.
func (g *Generator) Status() model.OrderStatus {
	return g.pick(model.OrderStatuses)
}

// UpdateStatus returns a uniformly random status an update may move an
// order to.
func (g *Generator) UpdateStatus() model.OrderStatus {
	return g.pick(model.UpdateTargetStatuses)
}

func (g *Generator) pick(statuses []model.OrderStatus) model.OrderStatus {
	return statuses[g.faker.Number(0, len(statuses)-1)]
}
