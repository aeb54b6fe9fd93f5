package main

import (
	"log"

	"orbfall/internal/game"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	g := game.New()
	ebiten.SetWindowTitle("Orbfall")
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
