// The codelock command runs digital code lock simulations from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "cannot load .env file: %s\n", err)
	}

	Execute()
}
