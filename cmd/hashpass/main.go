// Command hashpass prints the bcrypt hash of a password, for producing
// seed rows for the users table.
//
//	go run ./cmd/hashpass secret
package main

import (
	"fmt"
	"log"
	"os"

	"sqltester/internal/common/security"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <password>", os.Args[0])
	}
	hash, err := security.HashPassword(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hash)
}
