package main

import "reg-manager/cmd"

func main() {
	cmd.Execute()
}
