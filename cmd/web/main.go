package main

import "github.com/storefront/catalog/internal/app"

func main() {
	app.Run()
}
