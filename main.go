package main

import "github.com/haulstack/hoslog/cmd"

func main() {
	cmd.Execute()
}
