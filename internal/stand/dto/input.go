package dto

type CreateStandInput struct {
	Name         string
	Location     string
	ContactName  string
	ContactPhone string
	QRCode       string // generated when empty
	ImageURL     string
}

type UpdateStandInput struct {
	ID           string
	Name         string
	Location     string
	ContactName  string
	ContactPhone string
	ImageURL     string
}

type StockAssignmentInput struct {
	VariantID string
	Quantity  int
}

type AssignStockInput struct {
	StandID     string
	Assignments []StockAssignmentInput
}
