package services

import (
	"trackforge/internal/database"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
}

func New(db database.DB) Service {
	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
	}
}
