package main

import "github.com/LegacyCodeHQ/importsmoke/cmd"

func main() {
	cmd.Execute()
}
