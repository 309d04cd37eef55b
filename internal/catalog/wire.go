package catalog

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"eventcheckout/internal/catalog/repository"
)

func NewModule(db *sql.DB, storageTimeout time.Duration, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db, storageTimeout)
	svc := NewService(repo, time.Now)
	uc := NewSearchUseCase(svc)
	return NewController(uc, logger)
}
