package main

import "github.com/lokeshvpanchal/expense.ai/cmd"

func main() {
	cmd.Execute()
}
