package main

import "github.com/OpenTraceLab/ethdetect/cmd/ethdetect/cmd"

func main() {
	cmd.Execute()
}
