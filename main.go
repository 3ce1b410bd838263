package main

import "github.com/dotcommander/reportcard/cmd"

func main() {
	cmd.Execute()
}
