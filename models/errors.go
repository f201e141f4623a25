package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficiencyError rejects a cascade action that would draw more raw
// material than the partition currently holds. It carries the live balance so
// the caller can show the operator what is actually available.
type InsufficiencyError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficiencyError) Error() string {
	return fmt.Sprintf("insufficient raw material: need %s litres, have %s litres",
		e.Required.String(), e.Available.String())
}
