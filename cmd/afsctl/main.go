package main

import (
	"fmt"
	"os"

	"github.com/blues/afs/internal/config"
	"github.com/blues/afs/internal/database"
	"github.com/blues/afs/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "afsctl",
		Short:        "Athlete funding service administration",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(badgeCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB 按配置打开数据库并迁移表结构
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadFrom(viper.New(), ".env")
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := openDB(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
