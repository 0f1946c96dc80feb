package main

import (
	"github.com/astevko/randombmir/cmd"
)

func main() {
	cmd.Execute()
}
