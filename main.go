package main

import (
	"github.com/jjtimmons/autoprimer/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
