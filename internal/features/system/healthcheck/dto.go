package system_healthcheck

import "servicelogs/internal/storage"

type HealthStatusValue string

const (
	HealthStatusOk          HealthStatusValue = "ok"
	HealthStatusUnavailable HealthStatusValue = "unavailable"
)

type HealthStatus struct {
	Status      HealthStatusValue  `json:"status"`
	DataSources []DataSourceHealth `json:"dataSources"`
	Cache       *ComponentHealth   `json:"cache,omitempty"`
	Disk        *DiskUsage         `json:"disk,omitempty"`
}

type DataSourceHealth struct {
	DataSource storage.DataSourceType `json:"dataSource"`
	Available  bool                   `json:"available"`
	LatencyMs  int64                  `json:"latencyMs"`
	Error      string                 `json:"error,omitempty"`
}

type ComponentHealth struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type DiskUsage struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	UsedBytes   uint64  `json:"usedBytes"`
	UsedPercent float64 `json:"usedPercent"`
}
