package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-nest/framework/app"

	// Blank imports run the module load hooks that discovery executes.
	_ "github.com/km-arc/go-nest/app/controllers"
	_ "github.com/km-arc/go-nest/app/providers"
)

func main() {
	application, err := app.Create(app.Config{Manifest: "nest.yaml"})
	if err != nil {
		panic(err)
	}

	if _, err := application.Listen(); err != nil {
		panic(err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	_ = application.Close(sig.String())
}
