package main

import (
	"log"
	"os"
	stdos "os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer helper()

	if len(os.Args) > 3 {
		os.Exit(1) // want "avoid using os.Exit in main.main"
	}
	if len(os.Args) > 2 {
		stdos.Exit(1) // want "avoid using os.Exit in main.main"
	}
	if len(os.Args) > 1 {
		log.Fatalf("bad args: %v", os.Args) // want "avoid using log.Fatalf in main.main"
	}
	log.Println("ok")

	func() {
		log.Fatal("nested") // want "avoid using log.Fatal in main.main"
	}()
}
