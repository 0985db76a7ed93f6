package main

import "github.com/storetycoon/backend/internal/cli"

func main() {
	cli.Execute()
}
