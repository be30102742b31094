package repository

import (
	"database/sql"
	"errors"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/config"
)

// ErrScheduleReferenced 表示授课安排仍被未结束的代课申请引用，不能删除
var ErrScheduleReferenced = errors.New("该授课安排存在未结束的代课申请，无法删除")

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
