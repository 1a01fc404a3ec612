// cmd/adduser/main.go
// Creates or updates a user who may sign in to rate matches.
//
// Usage:
//
//	go run ./cmd/adduser -username padraic -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/dotawatch/config"
	bundb "github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/handlers"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg := config.Load()
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := bundb.UpsertUser(ctx, db, *username, hash); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("user %q saved\n", *username)
}
