// Package payment implements the mock payment processor collaborator.
// It simulates gateway latency and a realistic failure rate; nothing here
// touches real money.
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cardlink/internal/models"
)

// Result is the outcome of a payment attempt.
type Result struct {
	// Success reports whether the charge went through.
	Success bool `json:"success"`
	// TransactionID identifies a successful charge.
	TransactionID string `json:"transactionId,omitempty"`
	// Error carries the decline reason when Success is false.
	Error string `json:"error,omitempty"`
}

// successRate is the simulated fraction of charges that go through.
const successRate = 0.9

// Processor simulates an external payment gateway. The sleep and random
// functions are injectable so tests run deterministically and fast.
type Processor struct {
	sleep func(context.Context, time.Duration)
	rnd   func() float64
}

// NewProcessor returns a Processor with real latency and randomness.
func NewProcessor() *Processor {
	return &Processor{sleep: ctxSleep, rnd: rand.Float64}
}

// NewProcessorForTest returns a Processor without latency whose outcomes
// are driven by rnd.
func NewProcessorForTest(rnd func() float64) *Processor {
	return &Processor{sleep: func(context.Context, time.Duration) {}, rnd: rnd}
}

// ProcessPayment simulates charging the given amount. The amount string
// must parse to a positive number; anything else is a validation error.
// The simulated gateway takes one to two seconds and approves about 90%
// of charges.
func (p *Processor) ProcessPayment(ctx context.Context, amount string) (Result, error) {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil || v <= 0 {
		return Result{}, fmt.Errorf("invalid amount %q", amount)
	}

	p.simulateLatency(ctx)

	if p.rnd() >= successRate {
		return Result{Success: false, Error: "card declined"}, nil
	}
	return Result{Success: true, TransactionID: uuid.NewString()}, nil
}

// ProcessChangePlan simulates a plan-change charge. It shares the payment
// gateway's approval rate.
func (p *Processor) ProcessChangePlan(ctx context.Context, plan models.Plan) bool {
	if !plan.Valid() {
		return false
	}
	p.simulateLatency(ctx)
	return p.rnd() < successRate
}

func (p *Processor) simulateLatency(ctx context.Context) {
	p.sleep(ctx, time.Second+time.Duration(p.rnd()*float64(time.Second)))
}

// ctxSleep waits for d or until ctx is done, whichever comes first.
func ctxSleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
