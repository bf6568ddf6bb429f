package main

import "github.com/partydeck/mafia-server/internal/cli"

func main() {
	cli.Execute()
}
