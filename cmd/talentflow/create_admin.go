package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/types"
)

var errUserExists = errors.New("a user with this email already exists")

var (
	adminName    string
	adminEmail   string
	adminRole    string
	adminIfEmpty bool
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a staff account",
	Long: `Create a staff account with a bcrypt password hash. Values not given as flags
are asked for interactively; the password is always prompted for.`,
	Args: cobra.NoArgs,
	RunE: withDatabase(runCreateAdmin),
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&adminRole, "role", types.RoleAdmin, "Role: admin, recruiter or interviewer")
	createAdminCmd.Flags().BoolVar(&adminIfEmpty, "if-empty", false, "Only create the account when no users exist yet")
	rootCmd.AddCommand(createAdminCmd)
}

// userCreator is the part of the database create-admin needs.
type userCreator interface {
	CountUsers(ctx context.Context) (int, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (*db.User, error)
}

func runCreateAdmin(cmd *cobra.Command, database *db.DB) error {
	ctx := cmd.Context()
	if adminIfEmpty {
		n, err := database.CountUsers(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			appLog.Info("users already exist, skipping", zap.Int("count", n))
			return nil
		}
	}

	req := types.CreateUserRequest{Name: adminName, Email: adminEmail, Role: adminRole}
	if err := promptMissing(&req); err != nil {
		return err
	}
	passwords, err := config.NewPasswordConfig(appConfig.Auth)
	if err != nil {
		return err
	}

	user, err := createUser(ctx, database, passwords, req)
	if err != nil {
		return err
	}
	appLog.Info("user created",
		zap.Stringer("id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", user.Role))
	return nil
}

// createUser validates req, rejects taken emails and stores the hashed password.
func createUser(ctx context.Context, store userCreator, passwords *config.PasswordConfig, req types.CreateUserRequest) (*db.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	taken, err := store.UserEmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errUserExists
	}

	hash, err := passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return store.CreateUser(ctx, req.Name, req.Email, hash, req.Role)
}

func promptMissing(req *types.CreateUserRequest) error {
	var err error
	if req.Name == "" {
		if req.Name, err = ask("Name", notBlank, 0); err != nil {
			return err
		}
	}
	if req.Email == "" {
		if req.Email, err = ask("Email", notBlank, 0); err != nil {
			return err
		}
	}
	if req.Password, err = ask("Password", minLength(8), '*'); err != nil {
		return err
	}
	confirm, err := ask("Confirm password", notBlank, '*')
	if err != nil {
		return err
	}
	if confirm != req.Password {
		return errors.New("passwords do not match")
	}
	return nil
}

func ask(label string, validate promptui.ValidateFunc, mask rune) (string, error) {
	p := promptui.Prompt{Label: label, Validate: validate, Mask: mask}
	value, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", strings.ToLower(label), err)
	}
	return value, nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func minLength(n int) promptui.ValidateFunc {
	return func(s string) error {
		if len(s) < n {
			return fmt.Errorf("must be at least %d characters", n)
		}
		return nil
	}
}
