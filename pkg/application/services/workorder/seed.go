package workorder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/mrpledger/pkg/application/dto"
	"github.com/vsinha/mrpledger/pkg/domain/entities"
	"github.com/vsinha/mrpledger/pkg/domain/services"
)

// Seed registers every product then defines every BOM of data, in order.
// BOM findings such as unregistered components are returned as warnings and do
// not stop loading.
func (s *Service) Seed(ctx context.Context, data *dto.SeedData) ([]string, error) {
	for _, product := range data.Products {
		if err := s.AddProduct(ctx, product.Code, product.Name, product.InitialStock); err != nil {
			return nil, fmt.Errorf("seeding product %s: %w", product.Code, err)
		}
	}

	boms, err := data.BOMEntities()
	if err != nil {
		return nil, fmt.Errorf("seeding boms: %w", err)
	}
	result := services.NewBOMValidator().ValidateBOMs(boms, s.products.Exists)
	for _, warning := range result.Warnings {
		s.logger.Warn("bom check", zap.String("finding", warning))
	}

	for _, bom := range boms {
		lines := make([]BOMLineInput, 0, len(bom.Items))
		for _, item := range bom.Items {
			lines = append(lines, BOMLineInput{Component: item.Component, QtyPer: item.QtyPer})
		}
		if err := s.DefineBOM(ctx, bom.Product, lines); err != nil {
			return nil, fmt.Errorf("seeding bom %s: %w", bom.Product, err)
		}
	}

	s.logger.Debug("seed data loaded",
		zap.Int("products", len(data.Products)),
		zap.Int("boms", len(boms)))
	return result.Warnings, nil
}

// Produce runs one full production cycle: create, bulk issue, then report the whole quantity
func (s *Service) Produce(ctx context.Context, code entities.ProductCode, qty entities.Quantity) (*entities.WorkOrder, error) {
	wo, err := s.CreateWorkOrder(ctx, code, qty)
	if err != nil {
		return nil, err
	}
	if _, err := s.IssueMaterialsForWorkOrder(ctx, wo.ID); err != nil {
		return nil, err
	}
	if _, err := s.ReportProduction(ctx, wo.ID, qty); err != nil {
		return nil, err
	}
	return s.WorkOrder(wo.ID)
}
