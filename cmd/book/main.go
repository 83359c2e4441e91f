package main

import "github.com/emrgen/book/cmd"

func main() {
	cmd.Execute()
}
