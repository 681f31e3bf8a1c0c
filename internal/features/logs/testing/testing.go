package logs_testing

import (
	"fmt"
	"time"

	logs_models "servicelogs/internal/features/logs/models"
	"servicelogs/internal/storage"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB returns a private in-memory database with the log schema.
func OpenTestDB() *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(logs_models.AllModels()...); err != nil {
		panic(err)
	}

	return db
}

func CreateTestBackend(dataSource storage.DataSourceType) *storage.Backend {
	options := storage.DefaultBackendOptions()
	options.CommandTimeout = 5 * time.Second

	return &storage.Backend{
		Type:    dataSource,
		DB:      OpenTestDB(),
		Options: options,
	}
}

// CreateTestBackends registers one independent database per data source.
func CreateTestBackends(dataSources ...storage.DataSourceType) *storage.Backends {
	backends := make([]*storage.Backend, 0, len(dataSources))
	for _, dataSource := range dataSources {
		backends = append(backends, CreateTestBackend(dataSource))
	}

	result, err := storage.NewBackends(backends...)
	if err != nil {
		panic(err)
	}

	return result
}

func NewTestHeader(methodURL string, state logs_models.LogState, dateEntry time.Time) *logs_models.LogServicesHeader {
	return &logs_models.LogServicesHeader{
		DateEntry: dateEntry.UTC(),
		State:     state,
		MethodURL: methodURL,
	}
}

// CreateTestHeader inserts a header directly, bypassing the unit of work.
func CreateTestHeader(
	db *gorm.DB,
	header *logs_models.LogServicesHeader,
) *logs_models.LogServicesHeader {
	if err := db.Create(header).Error; err != nil {
		panic(err)
	}

	return header
}

func CreateTestHeaderWithDetails(
	db *gorm.DB,
	header *logs_models.LogServicesHeader,
	microserviceTexts []string,
	contentTexts []string,
) *logs_models.LogServicesHeader {
	for _, text := range microserviceTexts {
		header.Microservices = append(header.Microservices, logs_models.LogMicroservice{
			LogDate: header.DateEntry,
			LogText: text,
		})
	}

	for i, text := range contentTexts {
		header.Contents = append(header.Contents, logs_models.LogServicesContent{
			ContentNo:   i + 1,
			ContentText: text,
		})
	}

	return CreateTestHeader(db, header)
}

func StringPtr(value string) *string {
	return &value
}

func TimePtr(value time.Time) *time.Time {
	return &value
}

func StatePtr(value logs_models.LogState) *logs_models.LogState {
	return &value
}
