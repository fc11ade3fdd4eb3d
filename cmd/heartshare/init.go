package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/heartshare/internal/db"
	"github.com/erazemk/heartshare/internal/store"
	"github.com/erazemk/heartshare/internal/visitor"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	addServerFlags(initCmd)
	addClientFlags(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Printf("Config written: %s\n", configPath)
	} else {
		fmt.Printf("Config exists: %s\n", configPath)
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}
	if _, err := visitor.LoadSecret(cmd.Context(), database); err != nil {
		return err
	}

	n, err := store.CountDonatedItems(cmd.Context(), database)
	if err != nil {
		return err
	}

	fmt.Printf("Database ready: %s (%d listed items)\n", cfg.Database, n)
	return nil
}
