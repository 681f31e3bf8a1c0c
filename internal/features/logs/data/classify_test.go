package logs_data

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
)

func Test_ClassifyPostgresError_MapsSqlStateClasses(t *testing.T) {
	cases := map[string]PersistenceErrorKind{
		"23505": PersistenceErrorConstraint,
		"23503": PersistenceErrorConstraint,
		"08006": PersistenceErrorConnectivity,
		"57014": PersistenceErrorTimeout,
		"42P01": PersistenceErrorUnknown,
	}

	for code, expected := range cases {
		err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: code})
		assert.Equal(t, expected, classifyPostgresError(err), code)
	}
}

func Test_ClassifySqlServerError_MapsErrorNumbers(t *testing.T) {
	cases := map[int32]PersistenceErrorKind{
		2627:  PersistenceErrorConstraint,
		547:   PersistenceErrorConstraint,
		-2:    PersistenceErrorTimeout,
		40613: PersistenceErrorConnectivity,
		208:   PersistenceErrorUnknown,
	}

	for number, expected := range cases {
		err := fmt.Errorf("exec: %w", mssql.Error{Number: number})
		assert.Equal(t, expected, classifySqlServerError(err), number)
	}
}

func Test_ClassifyCommonError_RecognisesDeadlines(t *testing.T) {
	assert.Equal(t, PersistenceErrorTimeout, classifySqlServerError(context.DeadlineExceeded))
	assert.Equal(t, PersistenceErrorTimeout, classifyPostgresError(context.DeadlineExceeded))
	assert.Equal(t, PersistenceErrorUnknown, classifyCommonError(errors.New("boom")))
}
