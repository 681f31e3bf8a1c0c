package logs_data

import (
	"strings"
	"time"

	logs_dto "servicelogs/internal/features/logs/dto"
	logs_models "servicelogs/internal/features/logs/models"

	"gorm.io/gorm"
)

const (
	columnDateEntry        = "date_entry"
	columnState            = "state"
	columnMicroserviceName = "microservice_name"
	columnUserID           = "user_id"
	columnTransactionID    = "transaction_id"
	columnLogID            = "log_id"
	columnLogText          = "log_text"
	columnContentText      = "content_text"
	columnContentNo        = "content_no"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FilterScope combines every present filter field with AND. Date bounds are
// inclusive; text fields match case-insensitive substrings.
func FilterScope(filter *logs_dto.LogFilter) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if filter == nil {
			return db
		}

		if filter.StartDate != nil {
			db = db.Where(columnDateEntry+" >= ?", *filter.StartDate)
		}

		if filter.EndDate != nil {
			db = db.Where(columnDateEntry+" <= ?", *filter.EndDate)
		}

		if filter.State != nil {
			db = db.Where(columnState+" = ?", *filter.State)
		}

		db = containsIgnoreCase(db, columnMicroserviceName, filter.MicroserviceName)
		db = containsIgnoreCase(db, columnUserID, filter.UserID)
		db = containsIgnoreCase(db, columnTransactionID, filter.TransactionID)

		return db
	}
}

func dateRangeScope(start, end time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(columnDateEntry+" >= ? AND "+columnDateEntry+" <= ?", start, end)
	}
}

func equalsScope(column string, value any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

func stateInScope(states []logs_models.LogState) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(columnState+" IN ?", states)
	}
}

func textSearchScope(column, term string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return containsIgnoreCase(db, column, &term)
	}
}

func containsIgnoreCase(db *gorm.DB, column string, term *string) *gorm.DB {
	if term == nil || strings.TrimSpace(*term) == "" {
		return db
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(*term))) + "%"

	return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
}

func orderedBy(columns string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(columns)
	}
}
