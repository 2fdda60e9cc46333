package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskboard/api/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Taskboard API server",
		Long:  `Taskboard is a task and user management backend with cookie-based session authentication.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
