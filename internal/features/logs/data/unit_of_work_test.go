package logs_data

import (
	"context"
	"errors"
	"testing"
	"time"

	logs_models "servicelogs/internal/features/logs/models"
	logs_testing "servicelogs/internal/features/logs/testing"
	"servicelogs/internal/storage"
	"servicelogs/internal/util/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func createTestUnitOfWork(t *testing.T) (UnitOfWork, *storage.Backend) {
	t.Helper()

	backend := logs_testing.CreateTestBackend(storage.DataSourcePostgreSQL)
	uow := NewPostgresUnitOfWork(backend, logger.GetLogger())
	t.Cleanup(func() { _ = uow.Close() })

	return uow, backend
}

func Test_SaveChanges_WhenHeaderAdded_AssignsIdentifierOnlyAfterSave(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)

	header := logs_testing.NewTestHeader("/api/orders", logs_models.LogStatePending, testDate)
	require.NoError(t, uow.Headers().Add(header))

	assert.Equal(t, int64(0), header.LogID)
	assert.True(t, uow.HasPendingChanges())

	count, err := uow.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "staged rows must not be visible before save")

	affected, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NotZero(t, header.LogID)
	assert.False(t, uow.HasPendingChanges())

	stored, err := uow.Headers().GetByID(ctx, header.LogID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "/api/orders", stored.MethodURL)
}

func Test_SaveChanges_WithoutPendingChanges_ReturnsZero(t *testing.T) {
	uow, _ := createTestUnitOfWork(t)

	affected, err := uow.SaveChanges(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func Test_Add_WhenEntityAlreadyHasIdentifier_ReturnsInvalidOperation(t *testing.T) {
	uow, _ := createTestUnitOfWork(t)

	header := logs_testing.NewTestHeader("/api/orders", logs_models.LogStatePending, testDate)
	header.LogID = 42

	err := uow.Headers().Add(header)

	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.False(t, uow.HasPendingChanges())
}

func Test_AddRange_AssignsIdentifiersInInputOrder(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)

	headers := []*logs_models.LogServicesHeader{
		logs_testing.NewTestHeader("/first", logs_models.LogStatePending, testDate),
		logs_testing.NewTestHeader("/second", logs_models.LogStatePending, testDate),
		logs_testing.NewTestHeader("/third", logs_models.LogStatePending, testDate),
	}
	require.NoError(t, uow.Headers().AddRange(headers))

	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	assert.Less(t, headers[0].LogID, headers[1].LogID)
	assert.Less(t, headers[1].LogID, headers[2].LogID)

	all, err := Collect(uow.Headers().GetAll(ctx))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/first", all[0].MethodURL)
	assert.Equal(t, "/third", all[2].MethodURL)
}

func Test_Update_PersistsChangedFields(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)

	header := logs_testing.CreateTestHeader(
		backend.DB,
		logs_testing.NewTestHeader("/api/orders", logs_models.LogStatePending, testDate),
	)

	header.State = logs_models.LogStateCompleted
	header.DateExit = logs_testing.TimePtr(testDate.Add(time.Second))
	require.NoError(t, uow.Headers().Update(header))

	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	stored, err := uow.Headers().GetByID(ctx, header.LogID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, logs_models.LogStateCompleted, stored.State)
	require.NotNil(t, stored.DateExit)
	assert.True(t, stored.DateExit.Equal(testDate.Add(time.Second)))
}

func Test_Update_WhenEntityWasNeverSaved_IsSkipped(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)

	header := logs_testing.NewTestHeader("/never-saved", logs_models.LogStatePending, testDate)
	require.NoError(t, uow.Headers().Update(header))

	affected, err := uow.SaveChanges(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func Test_Delete_RemovesHeaderAndItsChildren(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)

	header := logs_testing.CreateTestHeaderWithDetails(
		backend.DB,
		logs_testing.NewTestHeader("/api/orders", logs_models.LogStateFailed, testDate),
		[]string{"step one", "step two"},
		[]string{"payload"},
	)

	require.NoError(t, uow.Headers().Delete(header))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	exists, err := uow.Headers().Exists(ctx, header.LogID)
	require.NoError(t, err)
	assert.False(t, exists)

	microservices, err := uow.MicroserviceLogs().GetByLogID(ctx, header.LogID)
	require.NoError(t, err)
	assert.Empty(t, microservices)

	contents, err := uow.Contents().GetByLogID(ctx, header.LogID)
	require.NoError(t, err)
	assert.Empty(t, contents)
}

func Test_SaveChanges_WhenFlushFails_KeepsPendingChangesAndRestoresIdentifiers(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)
	archive := GetAppendOnlyRepository[logs_models.LogServicesHeaderHistorico](uow)

	first := &logs_models.LogServicesHeaderHistorico{LogID: 7, DateEntry: testDate, MethodURL: "/a"}
	require.NoError(t, archive.Add(first))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	fresh := logs_testing.NewTestHeader("/fresh", logs_models.LogStatePending, testDate)
	duplicate := &logs_models.LogServicesHeaderHistorico{LogID: 7, DateEntry: testDate, MethodURL: "/b"}
	require.NoError(t, uow.Headers().Add(fresh))
	require.NoError(t, archive.Add(duplicate))

	_, err = uow.SaveChanges(ctx)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, storage.DataSourcePostgreSQL, persistenceErr.DataSource)
	assert.Equal(t, int64(0), fresh.LogID)
	assert.True(t, uow.HasPendingChanges())

	count, err := uow.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "a failed save must not apply any change")
}

func Test_SaveChanges_WhenFlushFailsWithChildren_ResetsChildKeysAndRetryInsertsFreshRows(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)
	archive := GetAppendOnlyRepository[logs_models.LogServicesHeaderHistorico](uow)

	require.NoError(t, archive.Add(&logs_models.LogServicesHeaderHistorico{LogID: 7, DateEntry: testDate, MethodURL: "/a"}))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	header := logs_testing.NewTestHeader("/with-children", logs_models.LogStatePending, testDate)
	header.Microservices = []logs_models.LogMicroservice{{LogDate: testDate, LogText: "original"}}
	header.Contents = []logs_models.LogServicesContent{{ContentNo: 1, ContentText: "payload"}}
	require.NoError(t, uow.Headers().Add(header))
	require.NoError(t, archive.Add(&logs_models.LogServicesHeaderHistorico{LogID: 7, DateEntry: testDate, MethodURL: "/b"}))

	_, err = uow.SaveChanges(ctx)
	require.Error(t, err)

	assert.Equal(t, int64(0), header.LogID)
	assert.Equal(t, int64(0), header.Microservices[0].LogMicroserviceID)
	assert.Equal(t, int64(0), header.Microservices[0].LogID)
	assert.Equal(t, int64(0), header.Contents[0].LogServicesContentID)
	assert.Equal(t, int64(0), header.Contents[0].LogID)

	other := logs_testing.CreateTestHeaderWithDetails(
		backend.DB,
		logs_testing.NewTestHeader("/other", logs_models.LogStateCompleted, testDate),
		[]string{"other"},
		[]string{"other payload"},
	)

	retry := NewPostgresUnitOfWork(backend, logger.GetLogger())
	defer retry.Close()

	require.NoError(t, retry.Headers().Add(header))
	_, err = retry.SaveChanges(ctx)
	require.NoError(t, err)
	require.NotZero(t, header.LogID)

	stored, err := retry.Headers().GetWithDetails(ctx, header.LogID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Microservices, 1)
	assert.Equal(t, "original", stored.Microservices[0].LogText)
	require.Len(t, stored.Contents, 1)
	assert.Equal(t, "payload", stored.Contents[0].ContentText)

	untouched, err := retry.Headers().GetWithDetails(ctx, other.LogID)
	require.NoError(t, err)
	require.Len(t, untouched.Microservices, 1)
	assert.Equal(t, "other", untouched.Microservices[0].LogText)
	require.Len(t, untouched.Contents, 1)
	assert.Equal(t, "other payload", untouched.Contents[0].ContentText)
}

func Test_Add_WhenChildCarriesIdentifier_ReturnsInvalidOperation(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)

	owner := logs_testing.CreateTestHeaderWithDetails(
		backend.DB,
		logs_testing.NewTestHeader("/owner", logs_models.LogStateCompleted, testDate),
		[]string{"owner line"},
		[]string{"owner payload"},
	)

	withMicroservice := logs_testing.NewTestHeader("/claims-microservice", logs_models.LogStatePending, testDate)
	withMicroservice.Microservices = []logs_models.LogMicroservice{
		{LogMicroserviceID: owner.Microservices[0].LogMicroserviceID, LogText: "taken"},
	}
	assert.ErrorIs(t, uow.Headers().Add(withMicroservice), ErrInvalidOperation)

	withContent := logs_testing.NewTestHeader("/claims-content", logs_models.LogStatePending, testDate)
	withContent.Contents = []logs_models.LogServicesContent{
		{LogServicesContentID: owner.Contents[0].LogServicesContentID, ContentText: "taken"},
	}
	assert.ErrorIs(t, uow.Headers().AddRange([]*logs_models.LogServicesHeader{withContent}), ErrInvalidOperation)

	archive := GetAppendOnlyRepository[logs_models.LogServicesHeaderHistorico](uow)
	archived := &logs_models.LogServicesHeaderHistorico{
		LogID:         50,
		DateEntry:     testDate,
		MethodURL:     "/archived",
		Microservices: []logs_models.LogMicroserviceHistorico{{LogMicroserviceID: 3, LogText: "preset"}},
	}
	assert.ErrorIs(t, archive.Add(archived), ErrInvalidOperation)

	assert.False(t, uow.HasPendingChanges())

	stored, err := uow.Headers().GetWithDetails(ctx, owner.LogID)
	require.NoError(t, err)
	require.Len(t, stored.Microservices, 1)
	assert.Equal(t, "owner line", stored.Microservices[0].LogText)
	require.Len(t, stored.Contents, 1)
}

func Test_BeginTransaction_WhenAlreadyInTransaction_ReturnsInvalidOperation(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)

	require.NoError(t, uow.BeginTransaction(ctx))
	assert.True(t, uow.InTransaction())

	err := uow.BeginTransaction(ctx)

	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.True(t, uow.InTransaction())
}

func Test_CommitAndRollback_WithoutTransaction_ReturnInvalidOperation(t *testing.T) {
	uow, _ := createTestUnitOfWork(t)

	assert.ErrorIs(t, uow.Commit(), ErrInvalidOperation)
	assert.ErrorIs(t, uow.Rollback(), ErrInvalidOperation)
}

func Test_Rollback_DiscardsFlushedAndPendingChanges(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)

	require.NoError(t, uow.BeginTransaction(ctx))

	saved := logs_testing.NewTestHeader("/saved-in-tx", logs_models.LogStatePending, testDate)
	saved.Microservices = []logs_models.LogMicroservice{{LogDate: testDate, LogText: "step"}}
	require.NoError(t, uow.Headers().Add(saved))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NotZero(t, saved.LogID)
	require.NotZero(t, saved.Microservices[0].LogMicroserviceID)

	require.NoError(t, uow.Headers().Add(
		logs_testing.NewTestHeader("/still-pending", logs_models.LogStatePending, testDate),
	))

	require.NoError(t, uow.Rollback())
	assert.False(t, uow.InTransaction())
	assert.False(t, uow.HasPendingChanges())
	assert.Equal(t, int64(0), saved.LogID, "rolled back rows must not look persisted")
	assert.Equal(t, int64(0), saved.Microservices[0].LogMicroserviceID)
	assert.Equal(t, int64(0), saved.Microservices[0].LogID)

	count, err := uow.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func Test_Commit_MakesTransactionChangesDurable(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)

	require.NoError(t, uow.BeginTransaction(ctx))
	require.NoError(t, uow.Headers().Add(
		logs_testing.NewTestHeader("/committed", logs_models.LogStateCompleted, testDate),
	))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	other := NewPostgresUnitOfWork(backend, logger.GetLogger())
	defer other.Close()

	count, err := other.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Close_RollsBackOpenTransactionAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)

	require.NoError(t, uow.BeginTransaction(ctx))
	require.NoError(t, uow.Headers().Add(
		logs_testing.NewTestHeader("/abandoned", logs_models.LogStatePending, testDate),
	))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, uow.Close())
	require.NoError(t, uow.Close())

	other := NewPostgresUnitOfWork(backend, logger.GetLogger())
	defer other.Close()

	count, err := other.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func Test_Operations_AfterClose_ReturnInvalidOperation(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)
	require.NoError(t, uow.Close())

	_, err := uow.Headers().GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	err = uow.Headers().Add(logs_testing.NewTestHeader("/late", logs_models.LogStatePending, testDate))
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	assert.ErrorIs(t, uow.BeginTransaction(ctx), ErrInvalidOperation)

	_, err = Collect(uow.Headers().GetAll(ctx))
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func Test_GetByID_WhenRowIsMissing_ReturnsNilWithoutError(t *testing.T) {
	uow, _ := createTestUnitOfWork(t)

	header, err := uow.Headers().GetByID(context.Background(), 12345)

	assert.NoError(t, err)
	assert.Nil(t, header)
}

func Test_Find_StopsWhenConsumerBreaks(t *testing.T) {
	ctx := context.Background()
	uow, backend := createTestUnitOfWork(t)

	for _, url := range []string{"/a", "/b", "/c"} {
		logs_testing.CreateTestHeader(backend.DB,
			logs_testing.NewTestHeader(url, logs_models.LogStatePending, testDate))
	}

	seen := 0
	for header, err := range uow.Headers().Find(ctx) {
		require.NoError(t, err)
		require.NotNil(t, header)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)

	// the connection must be released after an early break
	count, err := uow.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func Test_GetRepository_SharesSessionWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	uow, _ := createTestUnitOfWork(t)
	headers := GetRepository[logs_models.LogServicesHeader](uow)

	require.NoError(t, headers.Add(logs_testing.NewTestHeader("/generic", logs_models.LogStatePending, testDate)))
	assert.True(t, uow.HasPendingChanges())

	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)

	count, err := uow.Headers().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_NewUnitOfWork_PicksVariantByDataSource(t *testing.T) {
	postgresUow, err := NewUnitOfWork(logs_testing.CreateTestBackend(storage.DataSourcePostgreSQL), nil)
	require.NoError(t, err)
	defer postgresUow.Close()
	assert.IsType(t, &PostgresUnitOfWork{}, postgresUow)
	assert.Equal(t, storage.DataSourcePostgreSQL, postgresUow.DataSource())

	sqlServerUow, err := NewUnitOfWork(logs_testing.CreateTestBackend(storage.DataSourceSqlServer), nil)
	require.NoError(t, err)
	defer sqlServerUow.Close()
	assert.IsType(t, &SqlServerUnitOfWork{}, sqlServerUow)
	assert.Equal(t, storage.DataSourceSqlServer, sqlServerUow.DataSource())

	_, err = NewUnitOfWork(&storage.Backend{Type: storage.DataSourceType(5)}, nil)
	assert.True(t, errors.Is(err, storage.ErrDataSourceUnavailable))
}
