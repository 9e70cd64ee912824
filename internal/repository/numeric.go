package repository

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// decimalDest scans a NUMERIC column into a decimal.Decimal.
type decimalDest struct {
	d *decimal.Decimal
}

func (s decimalDest) ScanNumeric(v pgtype.Numeric) error {
	if !v.Valid {
		*s.d = decimal.Zero
		return nil
	}
	if v.NaN || v.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("cannot scan non-finite numeric into decimal")
	}
	*s.d = decimal.NewFromBigInt(v.Int, v.Exp)
	return nil
}

func numericArg(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// nullableNumericArg encodes nil as SQL NULL.
func nullableNumericArg(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numericArg(*d)
}
