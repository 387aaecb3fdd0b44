// Package main is the entry point for the master service.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/kart-io/launchpad/internal/master"
)

func main() {
	master.NewApp().Run()
}
