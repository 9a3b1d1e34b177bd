package delete_rate

import "context"

type RateService interface {
	Delete(ctx context.Context, rateID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
