package main

import (
	"github.com/pradeep9868/board-game-framework/internal/cmd"
)

func main() {
	cmd.Execute()
}
