package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/farellandr/eventreg/config"
	"github.com/farellandr/eventreg/internal/models"
	"github.com/farellandr/eventreg/internal/services"
)

var superuser services.RegisterUserInput

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a user with superuser privileges",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.OpenDatabase(cfg.Database, logger)
		if err != nil {
			return err
		}
		if err := models.AutoMigrate(db); err != nil {
			return err
		}

		user, err := services.NewUserService(db).CreateSuperuser(cmd.Context(), superuser)
		if err != nil {
			return fmt.Errorf("create superuser: %w", err)
		}

		logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("superuser created")
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuser.Username, "username", "", "username")
	createSuperuserCmd.Flags().StringVar(&superuser.Email, "email", "", "email address")
	createSuperuserCmd.Flags().StringVar(&superuser.Password, "password", "", "password (at least 8 characters)")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")
}
