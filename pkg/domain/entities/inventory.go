package entities

// StockLevel represents the available and reserved quantities of one product code
type StockLevel struct {
	Product   ProductCode
	Available Quantity
	Reserved  Quantity
}

// Total returns available plus reserved stock
func (s StockLevel) Total() Quantity {
	return s.Available + s.Reserved
}
