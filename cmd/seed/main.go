package main

import (
	"os"

	"github.com/princinho/storefront/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error(err.Error())
		_ = logger.Close()
		os.Exit(1)
	}
	_ = logger.Close()
}
