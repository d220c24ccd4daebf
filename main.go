package main

import "olympics-tracker/cmd"

func main() {
	cmd.Execute()
}
