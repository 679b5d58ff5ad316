package main

import cmd "github.com/km-arc/go-autowire/cmd/autowire"

func main() {
	cmd.Execute()
}
