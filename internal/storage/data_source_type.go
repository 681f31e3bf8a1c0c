package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DataSourceType identifies one of the supported relational backends. The
// ordinal values are persisted and serialized, so they must never change.
type DataSourceType int

const (
	DataSourcePostgreSQL DataSourceType = 0
	DataSourceSqlServer  DataSourceType = 1
)

func AllDataSourceTypes() []DataSourceType {
	return []DataSourceType{DataSourcePostgreSQL, DataSourceSqlServer}
}

func (t DataSourceType) IsValid() bool {
	switch t {
	case DataSourcePostgreSQL, DataSourceSqlServer:
		return true
	default:
		return false
	}
}

func (t DataSourceType) String() string {
	switch t {
	case DataSourcePostgreSQL:
		return "PostgreSQL"
	case DataSourceSqlServer:
		return "SqlServer"
	default:
		return fmt.Sprintf("DataSourceType(%d)", int(t))
	}
}

// ParseDataSourceType accepts either the name (case-insensitive, with the
// usual short aliases) or the ordinal value.
func ParseDataSourceType(value string) (DataSourceType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))

	switch normalized {
	case "postgresql", "postgres", "pg":
		return DataSourcePostgreSQL, nil
	case "sqlserver", "mssql":
		return DataSourceSqlServer, nil
	}

	if ordinal, err := strconv.Atoi(normalized); err == nil {
		dataSource := DataSourceType(ordinal)
		if dataSource.IsValid() {
			return dataSource, nil
		}
	}

	return 0, fmt.Errorf("unknown data source type: %q", value)
}

func (t DataSourceType) MarshalJSON() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", t)
	}

	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the name or the ordinal.
func (t *DataSourceType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var ordinal int
		if err := json.Unmarshal(data, &ordinal); err != nil {
			return fmt.Errorf("invalid data source type: %s", string(data))
		}

		raw = strconv.Itoa(ordinal)
	}

	parsed, err := ParseDataSourceType(raw)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}
