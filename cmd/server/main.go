package main

import "attendly/internal/app/server"

func main() {
	server.Run()
}
