package main

import "github.com/keyclip/keyclip/internal/cli"

func main() {
	cli.Main()
}
