package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/spf13/pflag"
)

// priorityValue is a --priority flag that accepts any case and rejects
// unknown priorities at parse time. The zero value means "not set".
type priorityValue domain.Priority

var _ pflag.Value = (*priorityValue)(nil)

func (p *priorityValue) String() string { return string(*p) }
func (p *priorityValue) Type() string   { return "priority" }

func (p *priorityValue) Set(s string) error {
	v := domain.Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !domain.ValidPriorities[v] {
		return fmt.Errorf("must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	*p = priorityValue(v)
	return nil
}

type unitValue domain.Unit

var _ pflag.Value = (*unitValue)(nil)

func (u *unitValue) String() string { return string(*u) }
func (u *unitValue) Type() string   { return "unit" }

func (u *unitValue) Set(s string) error {
	v := domain.Unit(strings.ToUpper(strings.TrimSpace(s)))
	if !domain.ValidUnits[v] {
		return fmt.Errorf("must be one of PIECES, KILOGRAM, GRAM, TONNE, UNITS")
	}
	*u = unitValue(v)
	return nil
}

// addPriorityFlag registers --priority on fs with def as the default.
func addPriorityFlag(fs *pflag.FlagSet, p *priorityValue, def domain.Priority, usage string) {
	*p = priorityValue(def)
	fs.Var(p, "priority", usage)
}

func addUnitFlag(fs *pflag.FlagSet, u *unitValue, def domain.Unit, usage string) {
	*u = unitValue(def)
	fs.Var(u, "unit", usage)
}
