package main

import (
	"os"

	"jobh_backend/internal/app"
)

func main() {
	os.Exit(app.Execute())
}
