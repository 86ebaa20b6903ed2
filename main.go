package main

import "github.com/inovacc/todo/cmd"

func main() {
	cmd.Execute()
}
