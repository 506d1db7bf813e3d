package main

import (
	"fmt"
	"os"

	"github.com/preiskampf/preiskampf/internal/cmd"
)

func main() {
	if len(os.Args) < 2 {
		cmd.RunServer()
		return
	}

	switch os.Args[1] {
	case "server":
		cmd.RunServer()
	case "seed":
		cmd.RunSeed()
	case "migrate":
		cmd.RunMigrate()
	case "create-user":
		cmd.RunCreateUser()
	case "help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Preiskampf - Preisvergleich und Einkaufszettel")
	fmt.Println("Usage: ./preiskampf [command] [args]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  server       Start the web server (default)")
	fmt.Println("  migrate      Run database migrations")
	fmt.Println("  seed         Run migrations and seed demo data")
	fmt.Println("  create-user  Create an active user (args: <email> <password>)")
	fmt.Println("  help         Show this help message")
}
