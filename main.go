package main

import "testfold/cmd"

func main() {
	cmd.Execute()
}
