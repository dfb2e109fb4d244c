package domain

type Item struct {
	ID           string
	ProjectID    string
	Name         string
	ReorderValue int
}
