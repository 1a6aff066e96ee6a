package worker

import (
	"context"
	"testing"
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/simulator"
)

func weeklyInput() model.SimulationInput {
	prices := []model.PricePoint{
		{Date: model.Day(2024, time.January, 1), Close: 100},
		{Date: model.Day(2024, time.January, 2), Close: 100},
		{Date: model.Day(2024, time.January, 8), Close: 110},
	}
	return model.SimulationInput{
		Prices:            prices,
		StartDate:         model.Day(2024, time.January, 1),
		Cadence:           model.CadenceWeekly,
		AmountPerPurchase: 50,
		Policy:            model.PotentialPolicy(),
	}
}

func TestSubmitDeliversResult(t *testing.T) {
	r := New(2)
	r.Start()
	defer r.Stop()

	ticket, err := r.Submit("potential", weeklyInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ticket.ID == "" {
		t.Fatal("ticket has empty id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := Wait(ctx, ticket)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.ID != ticket.ID || res.Key != "potential" {
		t.Errorf("result identity = %s/%s, want %s/potential", res.ID, res.Key, ticket.ID)
	}

	// The worker boundary must not change the computation.
	direct, err := simulator.Run(weeklyInput())
	if err != nil {
		t.Fatalf("direct Run: %v", err)
	}
	if res.Output.Summary != direct.Summary {
		t.Errorf("summary across worker = %+v, want %+v", res.Output.Summary, direct.Summary)
	}
}

func TestNewerSubmissionMarksOlderStale(t *testing.T) {
	// Both submissions are queued before the runner starts, so the first is
	// already superseded when a worker picks it up.
	r := New(1)
	first, err := r.Submit("ghost", weeklyInput())
	if err != nil {
		t.Fatalf("Submit first: %v", err)
	}
	second, err := r.Submit("ghost", weeklyInput())
	if err != nil {
		t.Fatalf("Submit second: %v", err)
	}
	r.Start()
	defer r.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res1, err := Wait(ctx, first)
	if err != nil {
		t.Fatalf("Wait first: %v", err)
	}
	res2, err := Wait(ctx, second)
	if err != nil {
		t.Fatalf("Wait second: %v", err)
	}
	if !res1.Stale {
		t.Error("superseded request not marked stale")
	}
	if res2.Stale {
		t.Error("latest request marked stale")
	}
}

func TestIndependentKeysDoNotInterfere(t *testing.T) {
	r := New(1)
	ghost, err := r.Submit("ghost", weeklyInput())
	if err != nil {
		t.Fatalf("Submit ghost: %v", err)
	}
	potential, err := r.Submit("potential", weeklyInput())
	if err != nil {
		t.Fatalf("Submit potential: %v", err)
	}
	r.Start()
	defer r.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, ticket := range []Ticket{ghost, potential} {
		res, err := Wait(ctx, ticket)
		if err != nil {
			t.Fatalf("Wait %s: %v", ticket.Key, err)
		}
		if res.Stale {
			t.Errorf("%s marked stale with no newer request on its key", ticket.Key)
		}
	}
}

func TestQueueFull(t *testing.T) {
	r := New(1) // not started: nothing drains the queue
	for i := 0; i < queueSize; i++ {
		if _, err := r.Submit("ghost", weeklyInput()); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}
	if _, err := r.Submit("ghost", weeklyInput()); err != ErrQueueFull {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
}

func TestSubmitAfterStop(t *testing.T) {
	r := New(1)
	r.Start()
	r.Stop()
	if _, err := r.Submit("ghost", weeklyInput()); err != ErrStopped {
		t.Errorf("err = %v, want ErrStopped", err)
	}
}

func TestWaitContextExpiry(t *testing.T) {
	r := New(1) // never started, so the result cannot arrive
	ticket, err := r.Submit("ghost", weeklyInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := Wait(ctx, ticket); err != context.DeadlineExceeded {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestValidationErrorPropagates(t *testing.T) {
	r := New(1)
	r.Start()
	defer r.Stop()

	in := weeklyInput()
	in.AmountPerPurchase = 0
	ticket, err := r.Submit("ghost", in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := Wait(ctx, ticket); err == nil {
		t.Error("invalid input error did not propagate through the worker")
	}
}
