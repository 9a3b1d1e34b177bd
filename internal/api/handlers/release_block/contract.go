package release_block

import "context"

type BlockService interface {
	Release(ctx context.Context, blockID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
