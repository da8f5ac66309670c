package main

import "github.com/MosaabBleik/catalog-service/internal/cli"

func main() {
	cli.Execute()
}
