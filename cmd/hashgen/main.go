// Command hashgen generates bcrypt hashes for the passwords given on the
// command line. Useful for seeding an initial admin account directly in
// the database.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: hashgen <password> [password...]")
		os.Exit(1)
	}

	for _, password := range os.Args[1:] {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error generating hash: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(hash))
	}
}
