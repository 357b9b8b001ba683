package planning

import (
	"fmt"
	"time"

	"github.com/retailops/procurement/pkg/domain/entities"
)

// Assembler assigns order identifiers and the final status to selected
// supplier-order lines.
type Assembler struct{}

// NewAssembler creates a new purchase-order assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assign numbers the lines sequentially in their existing order and stamps
// order date and status. Order ids follow PO-YYYYMMDD-NNNNN starting at 1,
// so identifiers are stable only for a fixed input ordering.
func (a *Assembler) Assign(lines []entities.SupplierOrderLine, calculationDate time.Time) []entities.SupplierOrderLine {
	datePart := calculationDate.Format("20060102")

	assigned := make([]entities.SupplierOrderLine, len(lines))
	for i, line := range lines {
		line.OrderID = fmt.Sprintf("PO-%s-%05d", datePart, i+1)
		line.OrderDate = calculationDate
		line.Status = entities.StatusPending
		assigned[i] = line
	}

	return assigned
}
