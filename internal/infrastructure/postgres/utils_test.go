package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/l10n-ch-billing/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("otro")))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}

func TestExpectRows(t *testing.T) {
	assert.NoError(t, expectRows(pgconn.NewCommandTag("UPDATE 2"), 2))
	// otra registración ya tomó una de las facturas
	assert.ErrorIs(t, expectRows(pgconn.NewCommandTag("UPDATE 1"), 2), domain.ErrConflict)
	assert.ErrorIs(t, expectRows(pgconn.NewCommandTag("UPDATE 0"), 1), domain.ErrConflict)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, distinct([]string{"a", "b", "a"}))
	assert.Empty(t, distinct(nil))
}

func TestLookupIPv4_Literales(t *testing.T) {
	ip, err := lookupIPv4(context.Background(), "10.0.0.7")
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = lookupIPv4(context.Background(), "::1")
	assert.Error(t, err)
}

func TestWithIPv4Host(t *testing.T) {
	assert.Equal(t, "postgres://u:p@127.0.0.1:5433/l10n_ch", withIPv4Host("postgres://u:p@127.0.0.1:5433/l10n_ch"))
	assert.Equal(t, "postgres://u:p@127.0.0.1:5432/l10n_ch", withIPv4Host("postgres://u:p@127.0.0.1/l10n_ch"))
	assert.Equal(t, "::not a url", withIPv4Host("::not a url"))
}
