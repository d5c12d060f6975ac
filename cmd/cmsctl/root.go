package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sitecms/internal/client"
	"sitecms/internal/model"
)

var (
	// Global flags
	apiURL     string
	tokenFile  string
	jsonOutput bool
	timeout    time.Duration

	// login
	username string
	password string

	// list
	page     int
	pageSize int
	keyword  string
	status   string
)

var rootCmd = &cobra.Command{
	Use:   "cmsctl",
	Short: "Command-line access to the site CMS admin API",
	Long: `cmsctl logs in to the admin API, keeps the token in a local file and
runs the day-to-day dashboard tasks from a terminal.

Examples:
  cmsctl login -u admin
  cmsctl products --keyword pump
  cmsctl messages --status unread
  cmsctl messages mark 12 replied
  cmsctl upload gallery ./plant.jpg`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			res, err := c.Login(ctx, username, password)
			if err != nil {
				return err
			}
			success("logged in as %s", res.Username)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			if err := c.Logout(ctx); err != nil && !client.IsUnauthorized(err) {
				return err
			}
			success("logged out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user behind the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			me, err := c.Me(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(me)
			}
			fmt.Println(me.Username)
			muted("token expires %s", me.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		})
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <category> <file>",
	Short: "Upload a file and print its public URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			file, err := c.Upload(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(file)
			}
			success("uploaded %s (%d bytes, %s)", file.OriginalName, file.Size, file.MimeType)
			fmt.Println(file.URL)
			return nil
		})
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			res, err := c.Products(ctx, listOptions())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(res.Items)
			}
			rows := make([][]string, 0, len(res.Items))
			for _, p := range res.Items {
				price := "-"
				if p.Price.Valid {
					price = p.Price.Decimal.StringFixed(2)
				}
				rows = append(rows, []string{
					strconv.FormatUint(uint64(p.ID), 10),
					truncate(p.Name, 40),
					price,
					strconv.FormatBool(p.Featured),
				})
			}
			printTable([]string{"ID", "NAME", "PRICE", "FEATURED"}, rows)
			printPagination(res.Pagination)
			return nil
		})
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List contact messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			opts := listOptions()
			opts.Status = status
			res, err := c.Messages(ctx, opts)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(res.Items)
			}
			rows := make([][]string, 0, len(res.Items))
			for _, m := range res.Items {
				rows = append(rows, []string{
					strconv.FormatUint(uint64(m.ID), 10),
					string(m.Status),
					truncate(m.Name, 20),
					truncate(m.Content, 50),
					m.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			printTable([]string{"ID", "STATUS", "FROM", "MESSAGE", "RECEIVED"}, rows)
			printPagination(res.Pagination)
			return nil
		})
	},
}

var markCmd = &cobra.Command{
	Use:   "mark <id> <unread|read|replied>",
	Short: "Set the status of a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid message id %q", args[0])
		}
		next := model.MessageStatus(args[1])
		if !next.Valid() {
			return fmt.Errorf("invalid status %q", args[1])
		}
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			msg, err := c.UpdateMessageStatus(ctx, uint(id), next)
			if err != nil {
				return err
			}
			success("message %d is now %s", msg.ID, msg.Status)
			return nil
		})
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		failure("%v", err)
		if client.IsUnauthorized(err) {
			muted("run `cmsctl login` to sign in again")
		}
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("SITECMS_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:3001/api"
	}
	defaultTokenFile, _ := client.DefaultTokenPath()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "Admin API base URL ($SITECMS_API)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", defaultTokenFile, "Where the bearer token is kept")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	loginCmd.Flags().StringVarP(&username, "username", "u", "admin", "Username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when empty)")

	for _, cmd := range []*cobra.Command{productsCmd, messagesCmd} {
		cmd.Flags().IntVar(&page, "page", 1, "Page number")
		cmd.Flags().IntVar(&pageSize, "page-size", 20, "Items per page")
		cmd.Flags().StringVar(&keyword, "keyword", "", "Search keyword")
	}
	messagesCmd.Flags().StringVar(&status, "status", "", "Filter by status (unread, read, replied)")
	messagesCmd.AddCommand(markCmd)

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, uploadCmd, productsCmd, messagesCmd)
}

func withClient(cmd *cobra.Command, fn func(context.Context, *client.Client) error) error {
	if tokenFile == "" {
		return fmt.Errorf("--token-file is required")
	}
	c := client.New(apiURL, client.WithTokenStore(client.FileTokenStore{Path: tokenFile}))
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	return fn(ctx, c)
}

func listOptions() client.ListOptions {
	return client.ListOptions{Page: page, PageSize: pageSize, Keyword: keyword}
}

func printPagination(p client.Pagination) {
	muted("page %d of %d, %d total", p.Page, p.TotalPages, p.Total)
}
