package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrpledger/pkg/application/services/workorder"
	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/infrastructure/events"
	"github.com/vsinha/mrpledger/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	store := events.NewInMemoryEventStore(nil)
	svc, err := workorder.NewService(memory.NewStockLedger("LAUNCH_PAD_39A"),
		workorder.WithEventStore(store))
	if err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		return
	}

	if err := setupRocketEngineBOM(ctx, svc); err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		return
	}

	fmt.Println("🚀 Building 3 rocket engines...")
	wo, err := svc.Produce(ctx, "ROCKET_ENGINE", 3)
	if err != nil {
		fmt.Printf("❌ Production failed: %v\n", err)
		return
	}
	fmt.Print(wo.String())
	fmt.Println()

	// Nine stations request one engine each; only what the remaining stock covers gets reserved
	fmt.Println("🏭 Nine stations requesting one engine each...")
	var created, short atomic.Int32
	var g errgroup.Group
	for station := 1; station <= 9; station++ {
		station := station
		g.Go(func() error {
			_, err := svc.CreateWorkOrder(ctx, "ROCKET_ENGINE", 1)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, entities.ErrInsufficientStock):
				short.Add(1)
			default:
				return fmt.Errorf("station %d: %w", station, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("  Reserved: %d work orders\n", created.Load())
	fmt.Printf("  🚨 Short: %d requests\n", short.Load())
	fmt.Println()

	fmt.Println("📦 Stock:")
	fmt.Print(svc.WarehouseSummary())
	fmt.Println()

	all, err := store.ReadAllEvents(0)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("📊 %d ledger events recorded\n", len(all))
	fmt.Println("✅ Done!")
}

func setupRocketEngineBOM(ctx context.Context, svc *workorder.Service) error {
	products := []struct {
		code  entities.ProductCode
		name  string
		stock entities.Quantity
	}{
		{"TURBOPUMP_V3", "Turbopump Assembly V3", 16},
		{"COMBUSTION_CHAMBER", "Main Combustion Chamber", 8},
		{"VALVE_ASSEMBLY", "Main Valve Assembly", 30},
		{"ROCKET_ENGINE", "Main Rocket Engine Assembly", 0},
	}
	for _, p := range products {
		if err := svc.AddProduct(ctx, p.code, p.name, p.stock); err != nil {
			return err
		}
	}

	return svc.DefineBOM(ctx, "ROCKET_ENGINE", []workorder.BOMLineInput{
		{Component: "TURBOPUMP_V3", QtyPer: 2},
		{Component: "COMBUSTION_CHAMBER", QtyPer: 1},
		{Component: "VALVE_ASSEMBLY", QtyPer: 4},
	})
}
