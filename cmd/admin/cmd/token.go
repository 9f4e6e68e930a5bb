package cmd

import (
	"fmt"
	"time"

	"github.com/ikkim/bizdir-backend/config"
	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/pkg/util"
	"github.com/spf13/cobra"
)

var (
	tokenUserID uint
	tokenEmail  string
	tokenRole   string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token for the admin API",
	Long:  "Signs an access token with JWT_SECRET. Intended for operators and automation without the account service.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().UintVar(&tokenUserID, "user-id", 1, "Subject user id")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Subject email (recorded as keyword author)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(model.RoleAdmin), "Role claim (admin or user)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "Access token lifetime")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, args []string) error {
	role := model.UserRole(tokenRole)
	if role != model.RoleAdmin && role != model.RoleUser {
		return fmt.Errorf("unknown role %q", tokenRole)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pair, err := util.GenerateTokenPair(tokenUserID, tokenEmail, string(role), cfg.JWT.Secret, tokenTTL, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(pair.AccessToken)
	return nil
}
