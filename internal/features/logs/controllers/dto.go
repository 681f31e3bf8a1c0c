package logs_controllers

import (
	"fmt"
	"strings"

	logs_dto "servicelogs/internal/features/logs/dto"
	logs_models "servicelogs/internal/features/logs/models"
	"servicelogs/internal/storage"
	time_parser "servicelogs/internal/util/time"
)

type GetHeadersQuery struct {
	StartDate        string `form:"startDate"`
	EndDate          string `form:"endDate"`
	State            string `form:"state"`
	MicroserviceName string `form:"microserviceName"`
	UserID           string `form:"userId"`
	TransactionID    string `form:"transactionId"`
	PageNumber       int    `form:"pageNumber"`
	PageSize         int    `form:"pageSize"`
}

func (q *GetHeadersQuery) ToFilter() (*logs_dto.LogFilter, error) {
	filter := &logs_dto.LogFilter{}

	startDate, err := time_parser.ParseOptionalTimestamp(q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	filter.StartDate = startDate

	endDate, err := time_parser.ParseOptionalTimestamp(q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}
	filter.EndDate = endDate

	if strings.TrimSpace(q.State) != "" {
		state, err := logs_models.ParseLogState(q.State)
		if err != nil {
			return nil, err
		}
		filter.State = &state
	}

	filter.MicroserviceName = optionalString(q.MicroserviceName)
	filter.UserID = optionalString(q.UserID)
	filter.TransactionID = optionalString(q.TransactionID)

	return filter, nil
}

func (q *GetHeadersQuery) Pagination() logs_dto.PaginationParams {
	return logs_dto.NewPaginationParams(q.PageNumber, q.PageSize)
}

type SearchQuery struct {
	Term string `form:"term" binding:"required"`
}

type DataSourcesResponse struct {
	DataSources []storage.DataSourceType `json:"dataSources"`
	Default     storage.DataSourceType   `json:"default"`
}

type DeleteHeaderResponse struct {
	Deleted bool `json:"deleted"`
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	return &value
}
