package main

import "github.com/sharpline/odds-intel/cmd"

func main() {
	cmd.Execute()
}
