package main

import "github.com/gaurav-prasanna/rpipipe/cmd"

func main() {
	cmd.Execute()
}
