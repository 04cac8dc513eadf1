package main

import (
	"github.com/84emllc/84em-local-pages-sub000/cmd/handlers"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
