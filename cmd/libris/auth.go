package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"libris/pkg/session"
)

// readPassword reads a password from the terminal with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

func newLoginCmd(a **app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			sess, err := session.Login(cmd.Context(), (*a).client, username, password)
			if err != nil {
				return err
			}
			if err := sess.Save((*a).cfg.SessionFile); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%v)\n", sess.User.Username, sess.User.Roles)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	return cmd
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			(*a).client.ClearToken()
			if err := session.Clear((*a).cfg.SessionFile); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newSignupCmd(a **app) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new patron account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" {
				return fmt.Errorf("--username and --email are required")
			}
			password, err := readPassword("Choose a password: ")
			if err != nil {
				return err
			}
			if err := (*a).client.Signup(cmd.Context(), username, email, password); err != nil {
				return err
			}
			fmt.Println("Account created. Run `libris login` to start a session.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}
