package main

import (
	"github.com/katalyzeAI/dsrna-designer/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
