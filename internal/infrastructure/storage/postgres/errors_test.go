package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"faturas/internal/core/apperror"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unique violation", pgError(pgUniqueViolation, "uq_invoices_key"), apperror.CodeConflict},
		{"foreign key violation", pgError(pgForeignKeyViolation, "fk_installments_document"), apperror.CodeIntegrity},
		{"serialization failure", pgError(pgSerializationFailure, ""), apperror.CodeConflict},
		{"unknown sqlstate", pgError("42601", ""), apperror.CodeDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, ok := apperror.AsAppError(MapError(tt.err))
			assert.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert invoice: %w", pgError(pgUniqueViolation, "uq_invoices_key"))

	assert.True(t, IsUniqueViolation(err, "uq_invoices_key"))
	assert.True(t, IsUniqueViolation(err, ""), "empty constraint matches any unique violation")
	assert.False(t, IsUniqueViolation(err, "uq_parties_tax_id"))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain error"), "uq_invoices_key"))
	assert.False(t, IsUniqueViolation(pgError(pgForeignKeyViolation, "uq_invoices_key"), "uq_invoices_key"))
}
