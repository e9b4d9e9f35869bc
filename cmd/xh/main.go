/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/xhfile/cmd/xh/cmd"
	"github.com/ssargent/xhfile/pkg/di"
)

func main() {
	container := di.NewContainer()

	cmd.SetContainer(container)

	cmd.Execute()
}
