package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mikemtdev/career-lift/internal/shared/storage/db"
)

const checkTimeout = 2 * time.Second

const (
	StateUp       = "up"
	StateDown     = "down"
	StateMemory   = "memory"
	StateDisabled = "disabled"
)

// Status is the health payload. OK is false when a configured dependency
// is unreachable.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Service checks the backing stores. Nil dependencies are reported as not
// in use rather than failing.
type Service struct {
	DB    *sql.DB
	Redis redis.Cmdable
}

func NewService(sqlDB *sql.DB, cache redis.Cmdable) *Service {
	return &Service{DB: sqlDB, Redis: cache}
}

func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: StateMemory, Cache: StateDisabled}
	if s.DB != nil {
		st.Database = StateUp
		if err := db.Ping(ctx, s.DB, checkTimeout); err != nil {
			st.Database = StateDown
			st.OK = false
		}
	}
	if s.Redis != nil {
		st.Cache = StateUp
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		defer cancel()
		if err := s.Redis.Ping(pingCtx).Err(); err != nil {
			st.Cache = StateDown
			st.OK = false
		}
	}
	return st
}
