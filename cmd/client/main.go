package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
