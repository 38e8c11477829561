package main

import "github.com/cfohelper/cfohelper/cmd"

func main() {
	cmd.Execute()
}
