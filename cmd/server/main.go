package main

import "proposal-management-api/app"

func main() {
	app.Run()
}
