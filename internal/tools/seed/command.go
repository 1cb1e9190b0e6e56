package seed

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/memberbase/member-registry/internal/config"
	"github.com/memberbase/member-registry/internal/database"
)

type options struct {
	username    string
	password    string
	displayName string
}

// NewRootCommand builds the seed CLI. It targets the postgres backend only;
// the in-memory backend starts empty and users register through the API.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Member registry seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.username, "username", "admin", "bootstrap admin username")
	cmd.PersistentFlags().StringVar(&opts.password, "password", "", "bootstrap admin password")
	cmd.PersistentFlags().StringVar(&opts.displayName, "display-name", "Administrator", "bootstrap admin display name")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Create the bootstrap admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB()
			if err != nil {
				return err
			}
			if err := database.SeedAdmin(db, opts.username, opts.password, opts.displayName); err != nil {
				return err
			}
			fmt.Printf("bootstrap admin ensured: %s\n", opts.username)
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("would ensure user exists: %s (%s)\n", opts.username, opts.displayName)
			return nil
		},
	}
}

func loadDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StorageBackend != config.StorageBackendPostgres {
		return nil, fmt.Errorf("seeding requires STORAGE_BACKEND=postgres")
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
