package main

import (
	"fmt"
	"os"

	"github.com/yungbote/moodcare-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()
	if err := a.Run(); err != nil {
		a.Log.Error("server exited with error", "error", err)
		a.Close()
		os.Exit(1)
	}
}
