package main

import "github.com/tinkrentals/rent-ledger/cmd"

func main() {
	cmd.Execute()
}
