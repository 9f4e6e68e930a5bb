// admin is the operator CLI for the business directory: bulk import, recategorization and tokens.
package main

import (
	"os"

	"github.com/ikkim/bizdir-backend/cmd/admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
