package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	errGenerationFailed = errors.New("generation failed")
	errInvalidKey       = errors.New("API key was rejected")
)

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored API key",
	}

	var skipValidate bool
	set := &cobra.Command{
		Use:   "set <api-key>",
		Short: "Validate and store an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !skipValidate {
				res, err := a.studio.ValidateKey(ctx, args[0])
				if err != nil {
					return err
				}
				if !res.Valid {
					printFailure(cmd.ErrOrStderr(), "%s", res.Error)
					return errInvalidKey
				}
			}
			if err := a.studio.SetAPIKey(ctx, args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "API key saved")
			return nil
		},
	}
	set.Flags().BoolVar(&skipValidate, "skip-validate", false, "Store the key without contacting the API")

	validate := &cobra.Command{
		Use:   "validate [api-key]",
		Short: "Check an API key (default: the configured or stored key)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := a.apiKey("")
			if len(args) == 1 {
				key = args[0]
			}
			res, err := a.studio.ValidateKey(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !res.Valid {
				printFailure(cmd.ErrOrStderr(), "%s", res.Error)
				return errInvalidKey
			}
			printSuccess(cmd.OutOrStdout(), "API key is valid")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.studio.SetAPIKey(cmd.Context(), ""); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "API key removed")
			return nil
		},
	}

	cmd.AddCommand(set, validate, clearCmd)
	return cmd
}
