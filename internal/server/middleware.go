package server

import (
	"errors"
	"net/http"
)

var ErrInternal = errors.New("internal server error")

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				writeJsonError(w, http.StatusInternalServerError, ErrInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJsonError(w http.ResponseWriter, code int, err error) {
	response := errorResponse{Error: errorDetails{Code: code, Message: err.Error()}}
	writeJson(w, code, response)
}

type errorResponse struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
