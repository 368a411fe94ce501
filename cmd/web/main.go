package main

import "proconnect_backend/internal/app"

func main() {
	app.Run()
}
