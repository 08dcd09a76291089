package main

import (
	cmd "github.com/securex/securex/cmd/securex"
	"github.com/securex/securex/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting securex")
	cmd.Execute()
}
