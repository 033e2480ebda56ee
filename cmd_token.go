package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/camden-git/communitybackend/apperr"
	"github.com/camden-git/communitybackend/handlers"
	"github.com/camden-git/communitybackend/repository"
)

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <person-id>",
		Short: "Issue an admin bearer token for an admin person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return apperr.Newf(apperr.KindInvalid, "invalid person id '%s'", args[0])
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.close()

			person, err := repository.NewPersonRepository(a.db).GetByID(cmd.Context(), uint(id))
			if err != nil {
				return apperr.Wrap(err, apperr.KindNotFound, "person not found")
			}
			if !person.IsAdmin && !person.IsSuperAdmin {
				return apperr.Newf(apperr.KindInvalid, "person %d is not an admin", person.ID)
			}

			token, expires, err := handlers.IssueAdminToken([]byte(a.cfg.JWTSecret), person.ID, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			a.log.Info("admin token issued", "person_id", person.ID, "expires_at", expires.Format(time.RFC3339))
			return nil
		},
	}
}

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key <api-key>",
		Short: "Print the bcrypt hash to put in ADMIN_API_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := handlers.HashAPIKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
