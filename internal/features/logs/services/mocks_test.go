package logs_services

import (
	"context"

	logs_data "servicelogs/internal/features/logs/data"
	logs_models "servicelogs/internal/features/logs/models"
	"servicelogs/internal/storage"

	"github.com/stretchr/testify/mock"
)

type mockFactory struct {
	mock.Mock
}

func (m *mockFactory) CreateUnitOfWork(
	ctx context.Context,
	dataSource storage.DataSourceType,
) (logs_data.UnitOfWork, error) {
	args := m.Called(ctx, dataSource)
	uow, _ := args.Get(0).(logs_data.UnitOfWork)
	return uow, args.Error(1)
}

func (m *mockFactory) GetAvailableDataSources() []storage.DataSourceType {
	return m.Called().Get(0).([]storage.DataSourceType)
}

func (m *mockFactory) ResolveDataSource(dataSource *storage.DataSourceType) storage.DataSourceType {
	if dataSource != nil {
		return *dataSource
	}

	return storage.DataSourcePostgreSQL
}

// mockUnitOfWork stubs only what the tests exercise; other calls panic
// through the nil embedded interface.
type mockUnitOfWork struct {
	logs_data.UnitOfWork
	mock.Mock

	headers *mockHeaderRepository
}

func (m *mockUnitOfWork) Headers() logs_data.HeaderRepository {
	return m.headers
}

func (m *mockUnitOfWork) DataSource() storage.DataSourceType {
	return storage.DataSourcePostgreSQL
}

func (m *mockUnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUnitOfWork) Close() error {
	return m.Called().Error(0)
}

type mockHeaderRepository struct {
	logs_data.HeaderRepository
	mock.Mock
}

func (m *mockHeaderRepository) GetByID(ctx context.Context, id int64) (*logs_models.LogServicesHeader, error) {
	args := m.Called(ctx, id)
	header, _ := args.Get(0).(*logs_models.LogServicesHeader)
	return header, args.Error(1)
}

func (m *mockHeaderRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockHeaderRepository) Add(header *logs_models.LogServicesHeader) error {
	return m.Called(header).Error(0)
}

func (m *mockHeaderRepository) Update(header *logs_models.LogServicesHeader) error {
	return m.Called(header).Error(0)
}

func (m *mockHeaderRepository) Delete(header *logs_models.LogServicesHeader) error {
	return m.Called(header).Error(0)
}

func newMockedService() (*LogService, *mockFactory, *mockUnitOfWork) {
	headers := &mockHeaderRepository{}
	uow := &mockUnitOfWork{headers: headers}
	factory := &mockFactory{}

	return NewLogService(factory, testLogger()), factory, uow
}
