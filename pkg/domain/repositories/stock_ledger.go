package repositories

import "github.com/vsinha/mrpledger/pkg/domain/entities"

// StockLedger tracks available and reserved stock per product code.
// Every method executes as a single atomic unit.
type StockLedger interface {
	// Name identifies the warehouse the ledger belongs to
	Name() string
	AddStock(code entities.ProductCode, qty entities.Quantity)
	Reserve(code entities.ProductCode, qty entities.Quantity) error
	Release(code entities.ProductCode, qty entities.Quantity) error
	IssueReserved(code entities.ProductCode, qty entities.Quantity) error
	// ReserveAll reserves every requirement or none of them
	ReserveAll(reqs []entities.Requirement) error
	// IssueAll issues every requirement from reserved stock or none of them
	IssueAll(reqs []entities.Requirement) error
	Available(code entities.ProductCode) entities.Quantity
	Reserved(code entities.ProductCode) entities.Quantity
	Level(code entities.ProductCode) entities.StockLevel
	// Levels returns every touched product code sorted ascending
	Levels() []entities.StockLevel
	Summary() string
}
