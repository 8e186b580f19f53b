package deduction

import (
	"errors"
	"strings"

	deductionerrors "go-payroll/internal/deduction/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return deductionerrors.ErrDeductionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return deductionerrors.ErrDeductionCodeExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "code") {
		return deductionerrors.ErrDeductionCodeExists
	}

	return err
}
