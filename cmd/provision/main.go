// Command provision manages staff accounts. There is no signup endpoint, every
// ADMIN or EDITOR account is created here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"primariaPortal/internal/config"
	"primariaPortal/internal/database"
	"primariaPortal/internal/logger"
	"primariaPortal/internal/models"
	"primariaPortal/internal/repository"
	"primariaPortal/internal/service"
	"primariaPortal/internal/validation"
)

const passwordEnv = "PROVISION_PASSWORD"

// serviceFactory opens the user service for one command run; the returned
// func releases whatever it holds.
type serviceFactory func() (service.UserService, func(), error)

func main() {
	if err := newRootCommand(userService).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(open serviceFactory) *cobra.Command {
	root := &cobra.Command{
		Use:          "provision",
		Short:        "Administrarea conturilor de personal ale primăriei",
		SilenceUsage: true,
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Conturi de utilizator",
	}
	userCmd.AddCommand(newCreateCommand(open), newSetRoleCommand(open))
	root.AddCommand(userCmd)

	return root
}

func newCreateCommand(open serviceFactory) *cobra.Command {
	var req service.ProvisionRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creează un cont nou",
		Example: `  provision user create --email ana@primaria.ro --name "Ana Pop" --role ADMIN
  PROVISION_PASSWORD=... provision user create --email ion@primaria.ro --name Ion --role EDITOR`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(passwordEnv)
			}

			users, closeDB, err := open()
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := users.Provision(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cont creat: %s <%s> rol %s\n", user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "adresa de email (obligatoriu)")
	cmd.Flags().StringVar(&req.Name, "name", "", "numele afișat (obligatoriu)")
	cmd.Flags().StringVar(&req.Role, "role", string(models.RoleEditor), "rolul contului, de ex. ADMIN sau EDITOR")
	cmd.Flags().StringVar(&req.Password, "password", "", "parola; implicit se citește din "+passwordEnv)
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSetRoleCommand(open serviceFactory) *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Schimbă rolul unui cont existent",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, closeDB, err := open()
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := users.SetRoleByEmail(cmd.Context(), email, models.Role(role))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rol actualizat: %s are acum rolul %s\n", user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "adresa de email a contului (obligatoriu)")
	cmd.Flags().StringVar(&role, "role", "", "noul rol (obligatoriu)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

// userService connects to the database; the returned func closes it.
func userService() (service.UserService, func(), error) {
	cfg := config.LoadConfig()
	logger.InitLogger(logger.ParseLevel(cfg.LogLevel))

	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewRepository(db.DB)
	closeDB := func() {
		if err := db.CloseDB(); err != nil {
			logger.Errorf("eroare la închiderea bazei de date: %v", err)
		}
	}
	return service.NewUserService(repo.User, validation.New()), closeDB, nil
}
