package middleware

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
)

// Recovery отвечает 500 на панику обработчика вместо разрыва соединения
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger: logger}))
}

type recoveryLogger struct {
	logger Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("HTTP - Recovered from panic: %s", fmt.Sprint(v...))
}
