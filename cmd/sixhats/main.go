/*
Copyright © 2026 sixhats Authors
*/
package main

import "sixhats/internal/cli"

func main() {
	cli.Execute()
}
