package main

import (
	"go.ntppool.org/locselect/cli"
	basecmd "go.ntppool.org/locselect/cmd"
)

func main() {
	basecmd.Run(&cli.Root{}, "locselect", "Select data set points and cells by location")
}
