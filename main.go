package main

import "github.com/killallgit/entropy/cmd"

func main() {
	cmd.Execute()
}
