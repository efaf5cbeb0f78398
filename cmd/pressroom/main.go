package main

import (
	"os"

	"mav.press/pressroom/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
