package main

import "chefcode/cmd"

func main() {
	cmd.Execute()
}
