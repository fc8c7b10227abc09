package repository

// SerialListFilter filters the serial list.
type SerialListFilter struct {
	Page       int
	PageSize   int
	ClientID   uint
	ProductID  uint
	Status     string
	RequestID  uint
	CodeSearch string
}

// ProductListFilter filters the product list.
type ProductListFilter struct {
	Page     int
	PageSize int
	ClientID uint
	Search   string
}

// RequestListFilter filters the request list.
type RequestListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// DeliveryListFilter filters the delivery list.
type DeliveryListFilter struct {
	Page      int
	PageSize  int
	RequestID uint
	SerialID  uint
}
