package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityUrgent: true,
}

type Unit string

const (
	UnitPieces   Unit = "PIECES"
	UnitKilogram Unit = "KILOGRAM"
	UnitUnits    Unit = "UNITS"
	UnitGram     Unit = "GRAM"
	UnitTonne    Unit = "TONNE"
)

// ValidUnits is the canonical set of accepted quantity units.
var ValidUnits = map[Unit]bool{
	UnitPieces: true, UnitKilogram: true, UnitUnits: true, UnitGram: true, UnitTonne: true,
}

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "PLANNED"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
)
