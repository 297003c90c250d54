package main

import "github.com/mytheresa/content-portal/cmd/cms/commands"

func main() {
	commands.Execute()
}
