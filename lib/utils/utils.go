package utils

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

// UserRequest is the identity extracted from a validated bearer token.
type UserRequest struct {
	UserID   string `json:"user_id" bson:"user_id"`
	UserName string `json:"user_name" bson:"user_name"`
}

func WaitForShutdown(closers ...interface{ Close() error }) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			log.Printf("Error closing: %v", err)
		}
	}
}
