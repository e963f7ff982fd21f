package main

import (
	"github.com/sidkik/galaxysync/cmd"
	"github.com/sidkik/galaxysync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
