package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"goadf/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd := newRootCmd(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		writeFailure(os.Stdout, err)
		os.Exit(1)
	}
}

// writeFailure prints a fatal error as {"kind": ..., "message": ...}
func writeFailure(w io.Writer, err error) {
	classified := errors.FromDomain(err)
	payload := map[string]string{
		"kind":    errors.GetCode(classified),
		"message": classified.Error(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(payload); encErr != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
