package main

import "github.com/andreiblt1304/subscription-service/cmd"

func main() {
	cmd.Execute()
}
