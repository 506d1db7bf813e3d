package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/preiskampf/preiskampf/internal/services"
)

// RunCreateUser cria um usuário já ativado, sem e-mail de confirmação.
func RunCreateUser() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: create-user <email> <password>")
		os.Exit(1)
	}
	email := os.Args[2]
	password := os.Args[3]

	ctx := context.Background()
	pool, err := openDB(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer pool.Close()

	user, err := services.NewAuthService(pool).CreateActiveUser(ctx, email, password)
	if err != nil {
		fmt.Printf("failed to create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("User %s created successfully (id %d)\n", user.Email, user.ID)
}
