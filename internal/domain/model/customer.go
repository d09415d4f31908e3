package model

// Customer is a synthetic buyer generated by this service.
// Rows are only ever inserted, never updated or deleted.
type Customer struct {
	ID    int64
	Name  string
	Email string
}
