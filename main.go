/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package main

import "github.com/gmaffy/genome-compare/cmd"

func main() {
	cmd.Execute()
}
