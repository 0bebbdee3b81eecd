package main

import "github.com/conneroisu/toke/cmd"

func main() {
	cmd.Execute()
}
