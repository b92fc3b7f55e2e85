package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListBalances(ctx context.Context) ([]Balance, error)
	GetBalance(ctx context.Context, employeeID int64) (*Balance, error)
	CreateBalance(ctx context.Context, b Balance) (*Balance, error)
	ListRequests(ctx context.Context) ([]Request, error)
	GetRequest(ctx context.Context, id int64) (*Request, error)
	CreateRequest(ctx context.Context, r Request) (*Request, error)
	UpdateRequestStatus(ctx context.Context, id int64, status string, approvedBy *int64, approvedAt *time.Time) (*Request, error)
}

var _ StoreAPI = (*Store)(nil)
