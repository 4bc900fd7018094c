package main

import "github.com/spachava753/llmport/cmd"

func main() {
	cmd.Execute()
}
