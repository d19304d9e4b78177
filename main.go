package main

import "github.com/haroontrailblazer/College-Departments-Portal/cmd"

func main() {
	cmd.Execute()
}
