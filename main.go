package main

import "github.com/example/mistakebook/cmd"

func main() {
	cmd.Execute()
}
