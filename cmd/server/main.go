package main

import "hrrecords/internal/app/server"

func main() {
	server.Run()
}
